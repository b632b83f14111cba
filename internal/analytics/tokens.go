package analytics

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TestSubscriberID marks tokens minted for test sends, which have no real
// subscriber behind them.
const TestSubscriberID = 0

// Token mints a signed tracking/unsubscribe identifier for one
// (campaign, subscriber) pair. The payload carries a fresh uuid so every
// send gets its own identifier even for the same pair.
func (t *Transformer) Token(campaignID, subscriberID int) string {
	data := fmt.Sprintf("%d|%d|%s", campaignID, subscriberID, uuid.NewString())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(data))
	return encoded + "." + t.sign(data)
}

// TestToken mints a token attributable to the campaign but no subscriber,
// so test-send previews carry live links without polluting real stats.
func (t *Transformer) TestToken(campaignID int) string {
	return t.Token(campaignID, TestSubscriberID)
}

// VerifyToken checks a token's signature and returns the campaign and
// subscriber ids it was minted for.
func (t *Transformer) VerifyToken(token string) (campaignID, subscriberID int, ok bool) {
	encoded, sig, found := strings.Cut(token, ".")
	if !found {
		return 0, 0, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, 0, false
	}
	data := string(raw)
	if !hmac.Equal([]byte(t.sign(data)), []byte(sig)) {
		return 0, 0, false
	}

	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return 0, 0, false
	}
	campaignID, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	subscriberID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return campaignID, subscriberID, true
}

func (t *Transformer) sign(data string) string {
	h := hmac.New(sha256.New, t.signingKey)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
