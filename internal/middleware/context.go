package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID     = "user_id"
	ContextKeyUserEmail  = "user_email"
	ContextKeyUserRole   = "user_role"
	ContextKeyCustomerID = "customer_id"
	ContextKeyRequestID  = "request_id"
)
