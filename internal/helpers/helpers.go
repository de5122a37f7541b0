package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
)

const (
	HouseFolder  = "houses"
	AvatarFolder = "avatars"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// ValidateToken verifies a Supabase access token against the project's JWKS.
func ValidateToken(tokenStr string) (*CustomClaims, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	jwksURL := fmt.Sprintf("%s/rest/v1/auth/jwks", supabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		// Fallback to unverified parsing if JWKS fails (for development)
		token, _, parseErr := jwt.NewParser().ParseUnverified(tokenStr, &CustomClaims{})
		if parseErr != nil {
			return nil, fmt.Errorf("JWKS validation failed and fallback parsing failed: %v", parseErr)
		}
		claims, ok := token.Claims.(*CustomClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return claims, nil
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

// StringTrim normalizes ids that arrive wrapped in whitespace or quotes.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// descriptionPolicy keeps the small set of markup hosts are allowed to use in
// a house description.
var descriptionPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br")
	return p
}()

func SanitizeDescription(html string) string {
	return descriptionPolicy.Sanitize(html)
}

// UploadImage pushes a single image to Cloudinary and returns its secure URL
// together with the public id needed for later deletion.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, file io.Reader, folder string) (string, string, error) {
	if cld == nil {
		return "", "", fmt.Errorf("cloudinary client is not initialized")
	}

	uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"nestbay"},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %v", err)
	}

	return uploadResult.SecureURL, uploadResult.PublicID, nil
}

// DeleteImages best-effort removes previously uploaded images, used to roll
// back after a failed create.
func DeleteImages(ctx context.Context, cld *cloudinary.Cloudinary, publicIDs []string) {
	if cld == nil {
		return
	}
	for _, id := range publicIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id}); err != nil {
			fmt.Printf("failed to delete image %s: %v\n", id, err)
		}
	}
}
