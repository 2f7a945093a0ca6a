package program

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/role"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultUploadExpiry = 15 * time.Minute
	maxUploadExpiry     = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`\-+`)
)

// SignBytesFunc signs a V4 string-to-sign as the configured service account.
type SignBytesFunc func(ctx context.Context, b []byte) ([]byte, error)

type ImageUploadInput struct {
	ProgramID      string `json:"programId,omitempty"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"`
}

type ImageUploadResult struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	ObjectPath  string `json:"objectPath"`
	ContentType string `json:"contentType"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// ImageUploader hands organizers short-lived URLs to PUT program images
// straight into Cloud Storage.
type ImageUploader struct {
	bucket  string
	account string
	sign    SignBytesFunc
	now     func() time.Time
}

func NewImageUploader(bucket, serviceAccountEmail string, sign SignBytesFunc) *ImageUploader {
	return &ImageUploader{
		bucket:  bucket,
		account: serviceAccountEmail,
		sign:    sign,
		now:     time.Now,
	}
}

func (u *ImageUploader) UploadURL(ctx context.Context, caller role.Caller, in ImageUploadInput) (*ImageUploadResult, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("Please log in to upload images.")
	}
	if !caller.Has(role.Organizer) {
		return nil, apperr.Permission("You do not have permission to upload program images.")
	}
	if u == nil || u.bucket == "" || u.account == "" || u.sign == nil {
		return nil, apperr.Unavailable("Image uploads are not configured.")
	}

	in.ContentType = strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := allowedImageTypes[in.ContentType]
	if !ok {
		return nil, apperr.Validation("contentType must be one of: image/jpeg, image/png, image/webp")
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, apperr.Validation("Missing required field: fileName")
	}
	if strings.ContainsAny(in.ProgramID, `/\`) || strings.Contains(in.ProgramID, "..") {
		return nil, apperr.Validation("programId is invalid")
	}

	objectPath := ImageObjectPath(in.ProgramID, caller.UID, in.FileName, ext)

	expiry := time.Duration(in.ExpiresSeconds) * time.Second
	if expiry <= 0 || expiry > maxUploadExpiry {
		expiry = defaultUploadExpiry
	}
	exp := u.now().Add(expiry)

	url, err := storage.SignedURL(u.bucket, objectPath, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "PUT",
		Expires:        exp,
		ContentType:    in.ContentType,
		GoogleAccessID: u.account,
		SignBytes: func(b []byte) ([]byte, error) {
			return u.sign(ctx, b)
		},
	})
	if err != nil {
		return nil, apperr.Upstream("Failed to create upload URL. Please try again.", err)
	}

	return &ImageUploadResult{
		URL:         url,
		Method:      "PUT",
		ObjectPath:  objectPath,
		ContentType: in.ContentType,
		ExpiresAt:   exp.Unix(),
	}, nil
}

// ImageObjectPath places images under their program, or under the uploader's
// drafts folder before the program exists.
func ImageObjectPath(programID, uid, fileName, ext string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = slugify(strings.TrimSuffix(base, path.Ext(base)))
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%s%s", uuid.NewString()[:8], base, ext)

	if programID != "" {
		return path.Join("programs", programID, "images", name)
	}
	return path.Join("programs", "drafts", uid, "images", name)
}

// slugify folds accents and keeps lowercase letters, digits and single dashes.
func slugify(name string) string {
	t := norm.NFKD.String(strings.TrimSpace(name))
	b := make([]rune, 0, len(t))
	for _, r := range t {
		switch {
		case unicode.Is(unicode.Mn, r):
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b = append(b, unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b = append(b, '-')
		}
	}
	out := nonSlug.ReplaceAllString(string(b), "-")
	out = multiDash.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
