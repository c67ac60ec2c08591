package middleware

import (
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// TraceAttributes tags request spans with the authenticated caller.
// Anonymous requests add nothing.
func TraceAttributes(c *gin.Context) []attribute.KeyValue {
	account := util.GetAccountFromContext(c)
	if account == nil {
		return nil
	}
	attrs := []attribute.KeyValue{
		attribute.String("account.role", string(account.Role())),
		attribute.Int64("account.user_id", int64(account.Who().UserID)),
	}
	if schoolID, ok := model.SchoolOf(account); ok {
		attrs = append(attrs, attribute.Int64("account.school_id", int64(schoolID)))
	}
	return attrs
}
