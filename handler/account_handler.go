package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/middleware"
)

const requestTimeout = 10 * time.Second

// AccountHandler bundles dependencies for signup, login, logout and delete.
type AccountHandler struct {
	service accountpkg.Service
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(svc accountpkg.Service) *AccountHandler {
	return &AccountHandler{service: svc}
}

// Signup registers a customer or driver. Provider and store failures are
// reported as 400.
func (h *AccountHandler) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountpkg.SignupRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		res, err := h.service.Signup(ctx, req)
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "User created successfully",
			"user":     userView(res.Identity),
			"profile":  res.Account.Document(),
			"location": res.Location,
		})
	}
}

// Login verifies credentials and returns the provider tokens with the profile.
func (h *AccountHandler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountpkg.LoginRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		res, err := h.service.Login(ctx, req)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}

		user := userView(res.Identity)
		user["role"] = res.Account.Role
		user["profile"] = res.Account.Document()
		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"user":         user,
			"idToken":      res.Tokens.IDToken,
			"refreshToken": res.Tokens.RefreshToken,
			"expiresIn":    res.Tokens.ExpiresIn,
		})
	}
}

// Logout always answers 200. Without a uid it only tells the client how to
// clear its own state.
func (h *AccountHandler) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountpkg.LogoutRequest
		// A missing or malformed body is a client-side logout.
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		res, err := h.service.Logout(ctx, req)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}

		timestamp := res.Timestamp.Format(time.RFC3339Nano)
		if !res.ServerSide {
			c.JSON(http.StatusOK, gin.H{
				"message": "Client-side logout guidance",
				"warning": "Server-side token revocation not performed (no uid provided)",
				"instructions": []string{
					"Clear all tokens from client storage",
					"Call signOut() on the client SDK",
					"Clear any cached user data",
					"Redirect to the login page",
				},
				"note":      "For complete security, provide the uid for server-side token revocation",
				"timestamp": timestamp,
			})
			return
		}

		details := gin.H{
			"serverSideLogout": "Refresh tokens revoked",
			"tokenStatus":      "Invalid/Expired",
		}
		if !res.Revoked {
			details["serverSideLogout"] = "Refresh token revocation failed"
			details["revokeError"] = res.RevokeError
		}
		if res.TokenValid {
			details["tokenStatus"] = "Valid at logout time"
			details["email"] = res.Email
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Logout successful",
			"details":   details,
			"timestamp": timestamp,
		})
	}
}

// Delete removes the identity and its stored profile.
func (h *AccountHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountpkg.DeleteRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		res, err := h.service.Delete(ctx, req)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}

		var deletedProfile any
		if res.Account != nil {
			deletedProfile = res.Account.Document()
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "User deleted successfully",
			"deletedUser": gin.H{
				"uid":         res.Identity.UID,
				"email":       res.Identity.Email,
				"displayName": res.Identity.DisplayName,
			},
			"deletedProfile": deletedProfile,
			"timestamp":      res.Timestamp.Format(time.RFC3339Nano),
		})
	}
}

// Profile returns the stored account of the caller. It must run after
// middleware.RequireIdentity.
func (h *AccountHandler) Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(middleware.ContextUID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		acc, err := h.service.Profile(ctx, uid)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"role":    acc.Role,
			"profile": acc.Document(),
		})
	}
}

// bindJSON decodes the body into req. An empty body leaves req zero so the
// service reports the missing fields.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request payload", "error": err.Error()})
		return false
	}
	return true
}

func userView(identity *auth.Identity) gin.H {
	return gin.H{
		"uid":          identity.UID,
		"email":        identity.Email,
		"displayName":  identity.DisplayName,
		"customClaims": identity.Claims,
	}
}

// writeError maps service error kinds to status codes. upstreamStatus is
// used for provider and store failures, which differ per operation.
func writeError(c *gin.Context, err error, upstreamStatus int) {
	_ = c.Error(err)

	var svcErr *accountpkg.Error
	if !errors.As(err, &svcErr) {
		c.JSON(upstreamStatus, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}

	body := gin.H{"message": svcErr.Message}
	if detail := svcErr.Detail(); detail != "" {
		body["error"] = detail
	}
	if svcErr.Field != "" {
		body["field"] = svcErr.Field
	}
	if svcErr.Suggestion != "" {
		body["suggestion"] = svcErr.Suggestion
	}
	c.JSON(statusOf(svcErr.Kind, upstreamStatus), body)
}

func statusOf(kind accountpkg.Kind, upstreamStatus int) int {
	switch kind {
	case accountpkg.KindValidation, accountpkg.KindDuplicate:
		return http.StatusBadRequest
	case accountpkg.KindAuthentication:
		return http.StatusUnauthorized
	case accountpkg.KindNotFound:
		return http.StatusNotFound
	}
	return upstreamStatus
}

// RegisterAccountRoutes mounts the account endpoints on g.
func RegisterAccountRoutes(g gin.IRoutes, h *AccountHandler, requireIdentity gin.HandlerFunc) {
	g.POST("/signup", h.Signup())
	g.POST("/login", h.Login())
	g.POST("/logout", h.Logout())
	g.DELETE("/delete", h.Delete())
	g.GET("/profile", requireIdentity,
		middleware.RequireRoles(entity.RoleCustomer, entity.RoleDriver), h.Profile())
}
