package errors

import sterrors "errors"

var (
	ErrServiceRequired     = sterrors.New("crawlbus: service is required")
	ErrConfigRequired      = sterrors.New("crawlbus: config is required")
	ErrHandlerRequired     = sterrors.New("crawlbus: handler function is required")
	ErrHandlerNameRequired = sterrors.New("crawlbus: handler name is required")
	ErrTypeKeyRequired     = sterrors.New("crawlbus: binding type key is required")
	ErrTopicRequired       = sterrors.New("crawlbus: topic is required")
	ErrMessageRequired     = sterrors.New("crawlbus: message is required")
	ErrPublisherRequired   = sterrors.New("crawlbus: publisher is required")
	ErrSchemaUnknown       = sterrors.New("crawlbus: unknown message schema")
)
