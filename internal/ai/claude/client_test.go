package claude

import (
	"context"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAPI struct {
	errs     []error
	requests []anthropic.MessagesRequest
	reply    string
}

func (s *stubAPI) CreateMessages(_ context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return anthropic.MessagesResponse{}, err
	}
	reply := s.reply
	return anthropic.MessagesResponse{
		Content: []anthropic.MessageContent{{Type: anthropic.MessagesContentTypeText, Text: &reply}},
	}, nil
}

func TestGenerateContent(t *testing.T) {
	api := &stubAPI{
		errs:  []error{&anthropic.APIError{Type: anthropic.ErrTypeOverloaded, Message: "overloaded"}},
		reply: " A tour operator and a photographer could run visual campaigns. ",
	}
	c := &Client{api: api, model: defaultModel, maxRetries: 2, logger: zap.NewNop()}

	out, err := c.GenerateContent(context.Background(), "be brief", "who?")
	require.NoError(t, err)
	assert.Equal(t, "A tour operator and a photographer could run visual campaigns.", out)
	require.Len(t, api.requests, 2)
	assert.Equal(t, "be brief", api.requests[0].System)
	assert.Equal(t, anthropic.Model(defaultModel), api.requests[0].Model)
}

func TestGenerateContentInvalidRequest(t *testing.T) {
	api := &stubAPI{errs: []error{&anthropic.APIError{Type: anthropic.ErrTypeInvalidRequest}}}
	c := &Client{api: api, model: defaultModel, maxRetries: 3, logger: zap.NewNop()}

	_, err := c.GenerateContent(context.Background(), "", "who?")
	require.Error(t, err)
	assert.Len(t, api.requests, 1)
}

func TestGenerateContentEmptyReply(t *testing.T) {
	c := &Client{api: &stubAPI{reply: "  "}, model: defaultModel, maxRetries: 1, logger: zap.NewNop()}

	_, err := c.GenerateContent(context.Background(), "", "who?")
	assert.Error(t, err)
}
