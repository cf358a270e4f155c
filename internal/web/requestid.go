package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id of one request, echoed in the response
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// requestID reuse the caller's id when it looks sane, otherwise mint one
func requestID(ctx *gin.Context) {
	id := ctx.GetHeader(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}

	ctx.Set(RequestIDHeader, id)
	ctx.Header(RequestIDHeader, id)
	ctx.Next()
}
