package controller

import (
	"net"
	"strconv"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// accountAs returns the caller's account when it has type T and writes 403
// otherwise.
func accountAs[T model.Account](ctx *gin.Context) (T, bool) {
	acc, ok := util.GetAccountFromContext(ctx).(T)
	if !ok {
		util.Forbidden(ctx)
	}
	return acc, ok
}

// currentAccount returns the authenticated account or writes 401.
func currentAccount(ctx *gin.Context) (model.Account, bool) {
	acc := util.GetAccountFromContext(ctx)
	if acc == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return acc, true
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// optionalIDQuery reads a numeric query parameter. Absent yields nil; a
// malformed value writes 400.
func optionalIDQuery(ctx *gin.Context, name string) (*uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "Invalid "+name)
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// subdomainFromHost returns the first label of hosts like
// "school.example.com", or "" when the host has no subdomain.
func subdomainFromHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 || labels[0] == "www" {
		return ""
	}
	return labels[0]
}

// requestOrigin is the scheme and host the client used, honouring a proxy's
// X-Forwarded-Proto.
func requestOrigin(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + ctx.Request.Host
}
