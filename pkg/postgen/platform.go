// Package postgen generates short social media posts from a platform and a
// brief, using a template → model chain built on every call.
package postgen

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxBriefLength is the maximum number of characters accepted in a brief.
const MaxBriefLength = 100

// ErrInvalidRequest is returned by Request.Validate.
var ErrInvalidRequest = errors.New("postgen: invalid request")

// Platform is a supported social media platform tag.
type Platform string

const (
	LinkedIn  Platform = "linkedin"
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
)

var labels = map[Platform]string{
	LinkedIn:  "LinkedIn",
	Facebook:  "Facebook",
	Instagram: "Instagram",
	Twitter:   "Twitter",
}

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{LinkedIn, Facebook, Instagram, Twitter}
}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	_, ok := labels[p]
	return ok
}

// Label returns the display name, or the raw tag for unknown platforms.
func (p Platform) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}

func (p Platform) String() string { return string(p) }

// ParsePlatform accepts a tag or a label in any case.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidRequest, s)
	}
	return p, nil
}

// Request is a single generation request.
type Request struct {
	Platform Platform
	Brief    string
}

// Validate checks the platform and the brief length.
func (r Request) Validate() error {
	if !r.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidRequest, r.Platform)
	}
	if n := utf8.RuneCountInString(r.Brief); n > MaxBriefLength {
		return fmt.Errorf("%w: brief is %d characters, max %d", ErrInvalidRequest, n, MaxBriefLength)
	}
	return nil
}

// TruncateBrief cuts s to MaxBriefLength characters.
func TruncateBrief(s string) string {
	if utf8.RuneCountInString(s) <= MaxBriefLength {
		return s
	}
	return string([]rune(s)[:MaxBriefLength])
}
