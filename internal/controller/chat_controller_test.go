package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
)

type stubChatService struct {
	res      *dto.ChatTurnResponse
	err      error
	gotPdfId uuid.UUID
	gotReq   *dto.ChatRequest
}

func (s *stubChatService) Chat(ctx context.Context, userId, pdfId uuid.UUID, req *dto.ChatRequest) (*dto.ChatTurnResponse, error) {
	s.gotPdfId = pdfId
	s.gotReq = req
	return s.res, s.err
}

func newChatApp(svc *stubChatService, userId uuid.UUID) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api, passthroughAuth(userId, "session-token"))
	return app
}

func TestChatReturnsTurn(t *testing.T) {
	pdfId := uuid.New()
	svc := &stubChatService{
		res: &dto.ChatTurnResponse{
			UserMessage:      dto.ChatMessageResponse{Id: uuid.New(), Content: "question", IsUserMessage: true},
			AiResponse:       dto.ChatMessageResponse{Id: uuid.New(), Content: "answer"},
			CreditsRemaining: 48,
		},
	}
	app := newChatApp(svc, uuid.New())

	req := httptest.NewRequest("POST", "/api/pdf/"+pdfId.String()+"/chat", strings.NewReader(`{"message":"question"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	assert.Equal(t, pdfId, svc.gotPdfId)
	assert.Equal(t, "question", svc.gotReq.Message)

	var envelope serverutils.BaseResponse[dto.ChatTurnResponse]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, 48, envelope.Data.CreditsRemaining)
	assert.Equal(t, "answer", envelope.Data.AiResponse.Content)
}

// The SPA reads these keys verbatim, renaming them breaks it.
func TestChatBodyUsesWireFieldNames(t *testing.T) {
	svc := &stubChatService{
		res: &dto.ChatTurnResponse{
			UserMessage:      dto.ChatMessageResponse{Id: uuid.New(), Content: "question", IsUserMessage: true},
			AiResponse:       dto.ChatMessageResponse{Id: uuid.New(), Content: "answer"},
			CreditsRemaining: 48,
		},
	}
	app := newChatApp(svc, uuid.New())

	req := httptest.NewRequest("POST", "/api/pdf/"+uuid.NewString()+"/chat", strings.NewReader(`{"message":"question"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["data"], &data))

	assert.Contains(t, data, "user_message")
	assert.Contains(t, data, "ai_response")
	assert.Contains(t, data, "credits_remaining")
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	app := newChatApp(&stubChatService{}, uuid.New())

	req := httptest.NewRequest("POST", "/api/pdf/"+uuid.NewString()+"/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestChatInsufficientCreditsIs403(t *testing.T) {
	svc := &stubChatService{err: apperr.Forbidden("Insufficient credits")}
	app := newChatApp(svc, uuid.New())

	req := httptest.NewRequest("POST", "/api/pdf/"+uuid.NewString()+"/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, "Insufficient credits", envelope.Message)
}

func TestChatMalformedPdfId(t *testing.T) {
	app := newChatApp(&stubChatService{}, uuid.New())

	req := httptest.NewRequest("POST", "/api/pdf/oops/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}
