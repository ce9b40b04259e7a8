package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed and tampered tokens.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired is returned once a token passes its expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// Grant is what a download token authorizes: one stored file of one course.
type Grant struct {
	CourseID     string
	AttachmentID string
	Path         string
	ExpiresAt    time.Time
}

// Signer issues and verifies HMAC-signed download tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer. A non-positive ttl defaults to 30 minutes.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for the grant; ExpiresAt is set from the signer's ttl.
func (s *Signer) Sign(courseID, attachmentID, path string) (string, time.Time, error) {
	if courseID == "" || path == "" {
		return "", time.Time{}, fmt.Errorf("course id and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Second)
	fields := []string{
		encode(courseID),
		encode(attachmentID),
		encode(path),
		strconv.FormatInt(expiresAt.Unix(), 10),
	}
	payload := strings.Join(fields, ".")
	return payload + "." + s.mac(payload), expiresAt, nil
}

// Verify checks the signature and expiry and returns the grant.
func (s *Signer) Verify(token string) (Grant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return Grant{}, ErrInvalidToken
	}
	payload := strings.Join(parts[:4], ".")
	if !hmac.Equal([]byte(s.mac(payload)), []byte(parts[4])) {
		return Grant{}, ErrInvalidToken
	}

	var grant Grant
	var err error
	if grant.CourseID, err = decode(parts[0]); err != nil {
		return Grant{}, ErrInvalidToken
	}
	if grant.AttachmentID, err = decode(parts[1]); err != nil {
		return Grant{}, ErrInvalidToken
	}
	if grant.Path, err = decode(parts[2]); err != nil {
		return Grant{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	grant.ExpiresAt = time.Unix(expUnix, 0).UTC()
	if s.now().After(grant.ExpiresAt) {
		return Grant{}, ErrTokenExpired
	}
	return grant, nil
}

func (s *Signer) mac(payload string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(payload))
	return hex.EncodeToString(m.Sum(nil))
}

func encode(v string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(v))
}

func decode(v string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	return string(raw), err
}
