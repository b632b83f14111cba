package ses

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
)

func testSetting() *model.Setting {
	return &model.Setting{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "example-secret",
		Region:    "us-east-1",
	}
}

func testCampaign() *model.Campaign {
	return &model.Campaign{
		FromName:     "Demo Sender",
		FromEmail:    "sender@example.com",
		EmailSubject: "Hello",
		Type:         model.TypeHTML,
	}
}

func TestBuildMessage(t *testing.T) {
	factory := NewFactory(false, "http://localhost:9999", time.Second)
	client, err := factory.New(context.Background(), testSetting())
	require.NoError(t, err)

	msg := client.BuildMessage("to@example.com", testCampaign(), "<p>hi</p>")

	assert.Equal(t, "Demo Sender <sender@example.com>", aws.ToString(msg.FromEmailAddress))
	assert.Equal(t, []string{"to@example.com"}, msg.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(msg.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(msg.Content.Simple.Body.Html.Data))
	assert.Nil(t, msg.Content.Simple.Body.Text)
}

func TestBuildMessagePlaintext(t *testing.T) {
	factory := NewFactory(false, "http://localhost:9999", time.Second)
	client, err := factory.New(context.Background(), testSetting())
	require.NoError(t, err)

	campaign := testCampaign()
	campaign.Type = model.TypePlaintext
	msg := client.BuildMessage("to@example.com", campaign, "hi")

	assert.Equal(t, "hi", aws.ToString(msg.Content.Simple.Body.Text.Data))
	assert.Nil(t, msg.Content.Simple.Body.Html)
}

// Outside production the client targets the sandbox endpoint with the same
// credential shape; no message reaches live infrastructure.
func TestSendAgainstSandboxEndpoint(t *testing.T) {
	var gotPath string
	sandbox := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"MessageId": "sandbox-mid-1"}`))
	}))
	defer sandbox.Close()

	factory := NewFactory(false, sandbox.URL, 5*time.Second)
	client, err := factory.New(context.Background(), testSetting())
	require.NoError(t, err)

	messageID, err := client.Send(context.Background(), "to@example.com", testCampaign(), "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "sandbox-mid-1", messageID)
	assert.Contains(t, gotPath, "outbound-emails")
}

func TestSendTimeoutSurfacesAsTransportError(t *testing.T) {
	sandbox := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer sandbox.Close()

	factory := NewFactory(false, sandbox.URL, 50*time.Millisecond)
	client, err := factory.New(context.Background(), testSetting())
	require.NoError(t, err)

	_, err = client.Send(context.Background(), "to@example.com", testCampaign(), "<p>hi</p>")
	require.Error(t, err)

	var transport *appErrors.ErrTransport
	require.True(t, errors.As(err, &transport))
	assert.True(t, transport.Timeout)
	// The credential values never leak through the error.
	assert.NotContains(t, transport.Reason, "example-secret")
}

func TestSendRejectionCarriesProviderReason(t *testing.T) {
	sandbox := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"__type": "BadRequestException", "message": "Email address is not verified"}`))
	}))
	defer sandbox.Close()

	factory := NewFactory(false, sandbox.URL, 5*time.Second)
	client, err := factory.New(context.Background(), testSetting())
	require.NoError(t, err)

	_, err = client.Send(context.Background(), "to@example.com", testCampaign(), "<p>hi</p>")
	require.Error(t, err)

	var transport *appErrors.ErrTransport
	require.True(t, errors.As(err, &transport))
	assert.False(t, transport.Timeout)
	assert.Contains(t, transport.Reason, "not verified")
}
