package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resale-ledger/internal/app"
)

const authCookie = "auth_token"

type sellerKey struct{}

// sellerFromContext returns the authenticated seller id stored in ctx, or 0.
func sellerFromContext(ctx context.Context) int64 {
	v, _ := ctx.Value(sellerKey{}).(int64)
	return v
}

// jwtClaims is the seller token payload.
type jwtClaims struct {
	SellerID  int64  `json:"seller_id"`
	StoreSlug string `json:"store_slug"`
	jwt.RegisteredClaims
}

// sellerToken extracts the token from the auth cookie or an Authorization bearer header.
func sellerToken(r *http.Request) string {
	if c, err := r.Cookie(authCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	return ""
}

func (h *Handler) parseSellerToken(raw string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(h.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAuth is chi middleware that validates the seller token and injects the
// seller id into the request context. Returns 401 if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := sellerToken(r)
		if raw == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		claims, err := h.parseSellerToken(raw)
		if err != nil || claims.SellerID <= 0 {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sellerKey{}, claims.SellerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// register handles POST /api/auth/register.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterSellerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seller, err := h.svc.RegisterSeller(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, seller)
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	seller, err := h.svc.AuthenticateSeller(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	claims := &jwtClaims{
		SellerID:  seller.ID,
		StoreSlug: seller.StoreSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.opts.SellerTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.opts.JWTSecret))
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	h.setCookie(w, authCookie, signed, "/", h.opts.SellerTokenTTL)
	type loginResponse struct {
		Seller any    `json:"seller"`
		Token  string `json:"token"`
	}
	writeJSON(w, loginResponse{Seller: seller, Token: signed})
}

// logout handles POST /api/auth/logout and clears the auth cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, authCookie, "/")
	w.WriteHeader(http.StatusNoContent)
}

// me handles GET /api/auth/me.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	seller, err := h.svc.GetSeller(r.Context(), sellerFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seller)
}

// setStorefront handles PUT /api/seller/storefront.
// Body: { enabled }
func (h *Handler) setStorefront(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	seller, err := h.svc.SetStorefrontEnabled(r.Context(), sellerFromContext(r.Context()), req.Enabled)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, seller)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value, path string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
