package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CSRFFormField  = "_csrf"
	CSRFHeader     = "X-CSRF-Token"
	CSRFContextKey = "csrfToken"
	csrfCookieName = "csrf_nonce"
	csrfTokenTTL   = 2 * time.Hour
)

// CSRFClaims binds a form token to the nonce cookie of the browser it was issued to.
type CSRFClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// TokenService issues and checks CSRF tokens.
type TokenService struct {
	Secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{Secret: secret, now: time.Now}
}

// GenerateToken signs a token for nonce.
func (s *TokenService) GenerateToken(nonce string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &CSRFClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(csrfTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.Secret)
}

// ValidateToken checks the signature and expiry of tokenString and that it was
// issued for nonce.
func (s *TokenService) ValidateToken(tokenString, nonce string) error {
	claims := &CSRFClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if nonce == "" || claims.Nonce != nonce {
		return fmt.Errorf("token was issued for another browser")
	}
	return nil
}

// CSRF protects form posts. Safe requests get a token in the context under
// CSRFContextKey for the templates; unsafe requests must send it back in the
// _csrf form field or the X-CSRF-Token header.
func CSRF(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := c.Cookie(csrfCookieName)
		if err != nil || nonce == "" {
			nonce = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(csrfCookieName, nonce, 0, "/", "", false, true)
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			submitted := c.PostForm(CSRFFormField)
			if submitted == "" {
				submitted = c.GetHeader(CSRFHeader)
			}
			if err := tokens.ValidateToken(submitted, nonce); err != nil {
				log.Printf("Rejected form post to %s: %v", c.Request.URL.Path, err)
				c.HTML(http.StatusForbidden, "error.html", gin.H{
					"title": "Error",
					"error": "The form has expired. Reload the page and try again.",
				})
				c.Abort()
				return
			}
		}

		token, err := tokens.GenerateToken(nonce)
		if err != nil {
			log.Printf("Error generating CSRF token: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(CSRFContextKey, token)
		c.Next()
	}
}
