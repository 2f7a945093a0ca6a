package program

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSigner(ctx context.Context, b []byte) ([]byte, error) {
	return []byte("signature"), nil
}

func newTestUploader() *ImageUploader {
	u := NewImageUploader("community-sport.appspot.com", "signer@community-sport.iam.gserviceaccount.com", fakeSigner)
	u.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return u
}

func TestUploadURL_SignsPut(t *testing.T) {
	u := newTestUploader()

	out, err := u.UploadURL(context.Background(), organizer, ImageUploadInput{
		ProgramID:   "prog-1",
		FileName:    "Team Photo.PNG",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, "PUT", out.Method)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, u.now().Add(15*time.Minute).Unix(), out.ExpiresAt)
	assert.Regexp(t, regexp.MustCompile(`^programs/prog-1/images/[0-9a-f]{8}-team-photo\.png$`), out.ObjectPath)

	parsed, err := url.Parse(out.URL)
	require.NoError(t, err)
	assert.Equal(t, "GOOG4-RSA-SHA256", parsed.Query().Get("X-Goog-Algorithm"))
	assert.True(t, strings.Contains(parsed.Path, "team-photo.png"))
}

func TestUploadURL_ClampsExpiry(t *testing.T) {
	u := newTestUploader()

	out, err := u.UploadURL(context.Background(), organizer, ImageUploadInput{
		FileName: "a.jpg", ContentType: "image/jpeg", ExpiresSeconds: 7200,
	})
	require.NoError(t, err)
	assert.Equal(t, u.now().Add(15*time.Minute).Unix(), out.ExpiresAt)

	out, err = u.UploadURL(context.Background(), organizer, ImageUploadInput{
		FileName: "a.jpg", ContentType: "image/jpeg", ExpiresSeconds: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, u.now().Add(10*time.Minute).Unix(), out.ExpiresAt)
}

func TestUploadURL_Rejects(t *testing.T) {
	u := newTestUploader()
	ctx := context.Background()

	_, err := u.UploadURL(ctx, role.Caller{}, ImageUploadInput{FileName: "a.png", ContentType: "image/png"})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = u.UploadURL(ctx, role.Caller{UID: "m1", Role: role.Member}, ImageUploadInput{FileName: "a.png", ContentType: "image/png"})
	assert.True(t, IsErrPermission(err))

	_, err = u.UploadURL(ctx, organizer, ImageUploadInput{FileName: "a.gif", ContentType: "image/gif"})
	assert.True(t, IsErrBadRequest(err))

	_, err = u.UploadURL(ctx, organizer, ImageUploadInput{FileName: " ", ContentType: "image/png"})
	assert.True(t, IsErrBadRequest(err))

	_, err = u.UploadURL(ctx, organizer, ImageUploadInput{ProgramID: "../other", FileName: "a.png", ContentType: "image/png"})
	assert.True(t, IsErrBadRequest(err))
}

func TestUploadURL_NotConfigured(t *testing.T) {
	var nilUploader *ImageUploader
	_, err := nilUploader.UploadURL(context.Background(), organizer, ImageUploadInput{FileName: "a.png", ContentType: "image/png"})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	u := NewImageUploader("bucket", "", fakeSigner)
	_, err = u.UploadURL(context.Background(), organizer, ImageUploadInput{FileName: "a.png", ContentType: "image/png"})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestUploadURL_SignerFailure(t *testing.T) {
	u := NewImageUploader("bucket", "signer@x.iam.gserviceaccount.com", func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New("iam: denied")
	})
	_, err := u.UploadURL(context.Background(), organizer, ImageUploadInput{FileName: "a.png", ContentType: "image/png"})
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestImageObjectPath(t *testing.T) {
	p := ImageObjectPath("", "uid-7", `C:\Users\me\My Pic!!.jpeg`, ".jpg")
	assert.Regexp(t, regexp.MustCompile(`^programs/drafts/uid-7/images/[0-9a-f]{8}-my-pic\.jpg$`), p)

	p = ImageObjectPath("prog-2", "uid-7", "???.png", ".png")
	assert.Regexp(t, regexp.MustCompile(`^programs/prog-2/images/[0-9a-f]{8}-image\.png$`), p)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "cafe-night", slugify("  Café   Night "))
	assert.Equal(t, "u14-squad", slugify("U14_squad"))
	assert.Equal(t, "", slugify("日本"))
}
