package output

import "errors"

var (
	ErrEncodeFailed       = errors.New("failed to encode output record")
	ErrWriteFailed        = errors.New("failed to write output")
	ErrInvalidKafkaConfig = errors.New("invalid Kafka sink configuration provided")
	ErrKafkaPublishFailed = errors.New("failed to publish records to Kafka")
)
