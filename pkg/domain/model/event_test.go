package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
)

func TestEventDecodeData(t *testing.T) {
	evt := model.NewEvent(types.EventUserCreated, map[string]any{
		"id":         "user_1",
		"first_name": "Ada",
		"email_addresses": []any{
			map[string]any{"email_address": "ada@example.com"},
		},
	})

	var payload struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	}
	gt.NoError(t, evt.DecodeData(&payload)).Required()

	gt.Value(t, payload.ID).Equal("user_1")
	gt.Value(t, payload.FirstName).Equal("Ada")
	gt.Array(t, payload.EmailAddresses).Length(1)
	gt.Value(t, payload.EmailAddresses[0].EmailAddress).Equal("ada@example.com")
}

func TestEventStringData(t *testing.T) {
	evt := model.NewEvent(types.EventStoryCreated, map[string]any{
		"story_id": "s1",
		"count":    3,
	})

	gt.Value(t, evt.StringData("story_id")).Equal("s1")
	gt.Value(t, evt.StringData("count")).Equal("")
	gt.Value(t, evt.StringData("missing")).Equal("")
}

func TestNewEventDefaultsData(t *testing.T) {
	evt := model.NewEvent(types.EventDailyDigest, nil)
	gt.Value(t, evt.Data).NotNil()
	gt.Bool(t, evt.OccurredAt.IsZero()).False()
}
