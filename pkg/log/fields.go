package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID = "user_id"

	// Domain
	FieldPostID     = "post_id"
	FieldFollowedID = "followed_id"
	FieldAuthorID   = "author_id"
	FieldCacheKey   = "cache_key"

	// Service
	FieldService = "service"
	FieldSource  = "source"
)
