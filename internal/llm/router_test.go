package llm_test

import (
	"context"
	"testing"

	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name       string
	configured bool
	reply      string
	gotModel   string
	gotReq     llm.Request
}

func (s *stubProvider) Name() string              { return s.name }
func (s *stubProvider) AvailableModels() []string { return []string{"m1", "m2"} }
func (s *stubProvider) DefaultModel() string      { return "m1" }
func (s *stubProvider) IsConfigured() bool        { return s.configured }

func (s *stubProvider) GenerateReply(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	s.gotReq = req
	s.gotModel = model
	return &llm.Response{Reply: s.reply, Model: model}, nil
}

func TestRouter_GenerateReply(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, reply: "ok!"}
	router := llm.NewRouter("stub")
	router.RegisterProvider(stub)

	req := llm.Request{InputText: "hello", History: []llm.Example{{InputText: "a", ReplyText: "b"}}}
	resp, err := router.GenerateReply(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "ok!", resp.Reply)
	assert.Equal(t, "m1", stub.gotModel)
	assert.Equal(t, req, stub.gotReq)
}

func TestRouter_GetProvider(t *testing.T) {
	router := llm.NewRouter("stub")
	router.RegisterProvider(&stubProvider{name: "stub", configured: true})
	router.RegisterProvider(&stubProvider{name: "idle", configured: false})

	t.Run("default", func(t *testing.T) {
		p, err := router.GetProvider("")
		require.NoError(t, err)
		assert.Equal(t, "stub", p.Name())
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := router.GetProvider("idle")
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := router.GetProvider("nope")
		assert.Error(t, err)
	})
}

func TestRouter_ProvidersInfo(t *testing.T) {
	router := llm.NewRouter("b")
	router.RegisterProvider(&stubProvider{name: "b", configured: true})
	router.RegisterProvider(&stubProvider{name: "a", configured: false})

	assert.Equal(t, []string{"b"}, router.ListProviders())

	infos := router.GetProvidersInfo()
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.False(t, infos[0].Configured)
	assert.True(t, infos[1].Default)
}
