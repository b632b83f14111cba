// Package analytics rewrites campaign email bodies for tracking: link
// wrapping, open pixel, unsubscribe link, and mail-merge substitution.
// All rewrites are pure functions over a copy of the body; stored campaign
// state is never mutated.
package analytics

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/unclebandit/mailleopard-backend/internal/model"
)

// Transformer rewrites email bodies and mints the signed identifiers the
// tracking endpoints resolve.
type Transformer struct {
	signingKey []byte
	baseURL    string
}

// NewTransformer returns a transformer using baseURL for redirect hosts and
// signingKey for token signatures. A per-account white-label URL, when set,
// replaces baseURL at rewrite time.
func NewTransformer(signingKey, baseURL string) *Transformer {
	return &Transformer{
		signingKey: []byte(signingKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

var (
	hrefRe = regexp.MustCompile(`href=(["'])(https?://[^"']+)(["'])`)
	bareRe = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// Apply runs the flag-gated rewrites in their fixed order: link wrap, then
// tracking pixel, then unsubscribe link. The order is load-bearing — the
// pixel and unsubscribe URLs must not themselves get click-wrapped.
func (t *Transformer) Apply(c *model.Campaign, trackingToken, unsubscribeToken, whiteLabelURL string) string {
	body := c.EmailBody
	if c.TrackLinksEnabled {
		body = t.WrapLinks(body, trackingToken, c.Type, whiteLabelURL)
	}
	if c.TrackingPixelEnabled {
		body = t.InsertTrackingPixel(body, trackingToken, c.Type, whiteLabelURL)
	}
	if c.UnsubscribeLinkEnabled {
		body = t.InsertUnsubscribeLink(body, unsubscribeToken, c.Type, whiteLabelURL)
	}
	return body
}

// WrapLinks rewrites every hyperlink target into a tracked redirect. A body
// with no links comes back unchanged. Non-link content is untouched.
func (t *Transformer) WrapLinks(body, token, contentType, whiteLabelURL string) string {
	base := t.baseFor(whiteLabelURL)

	if contentType == model.TypePlaintext {
		return bareRe.ReplaceAllStringFunc(body, func(raw string) string {
			return clickURL(base, token, raw)
		})
	}

	return hrefRe.ReplaceAllStringFunc(body, func(match string) string {
		groups := hrefRe.FindStringSubmatch(match)
		return "href=" + groups[1] + clickURL(base, token, groups[2]) + groups[3]
	})
}

// InsertTrackingPixel places a 1x1 open-tracking image before </body>, or at
// the end when the body has no such tag. Plaintext bodies cannot carry an
// image and come back unchanged.
func (t *Transformer) InsertTrackingPixel(body, token, contentType, whiteLabelURL string) string {
	if contentType == model.TypePlaintext {
		return body
	}

	pixel := fmt.Sprintf(
		`<img src="%s/opened?id=%s" width="1" height="1" style="display:none" alt=""/>`,
		t.baseFor(whiteLabelURL), url.QueryEscape(token),
	)
	if strings.Contains(body, "</body>") {
		return strings.Replace(body, "</body>", pixel+"</body>", 1)
	}
	return body + pixel
}

// InsertUnsubscribeLink appends the unsubscribe link, before </body> for
// HTML bodies when present.
func (t *Transformer) InsertUnsubscribeLink(body, token, contentType, whiteLabelURL string) string {
	target := fmt.Sprintf("%s/unsubscribe?id=%s", t.baseFor(whiteLabelURL), url.QueryEscape(token))

	if contentType == model.TypePlaintext {
		return body + "\n\nUnsubscribe: " + target
	}

	link := fmt.Sprintf(`<p><a href="%s">Unsubscribe</a></p>`, target)
	if strings.Contains(body, "</body>") {
		return strings.Replace(body, "</body>", link+"</body>", 1)
	}
	return body + link
}

func (t *Transformer) baseFor(whiteLabelURL string) string {
	if whiteLabelURL != "" {
		return strings.TrimRight(whiteLabelURL, "/")
	}
	return t.baseURL
}

func clickURL(base, token, original string) string {
	return fmt.Sprintf("%s/clicked?id=%s&url=%s", base, url.QueryEscape(token), url.QueryEscape(original))
}
