package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionKind(t *testing.T) {
	assert.True(t, MsgRequestPermission.PermissionKind())
	assert.True(t, MsgGrantPermission.PermissionKind())
	assert.False(t, MsgGetData.PermissionKind())
	assert.False(t, MsgCheckPermission.PermissionKind())
}

func TestDecodePayload_FromTypedValue(t *testing.T) {
	var out CheckPermissionPayload
	err := DecodePayload(CheckPermissionPayload{Domain: "example.com"}, &out)

	assert.NoError(t, err)
	assert.Equal(t, "example.com", out.Domain)
}

func TestDecodePayload_FromGenericMap(t *testing.T) {
	// Payloads that crossed a JSON boundary arrive as map[string]any.
	var out SetDataPayload
	err := DecodePayload(map[string]any{"dataId": "profile", "content": "x"}, &out)

	assert.NoError(t, err)
	assert.Equal(t, "profile", out.DataID)
	assert.Equal(t, "x", out.Content)
}

func TestDecodePayload_Missing(t *testing.T) {
	var out SetDataPayload
	assert.Error(t, DecodePayload(nil, &out))
}

func TestResponseEnvelopes(t *testing.T) {
	ok := OK("req-1", "data")
	assert.True(t, ok.Success)
	assert.Equal(t, "req-1", ok.RequestID)

	fail := Fail("req-2", "boom")
	assert.False(t, fail.Success)
	assert.Equal(t, "boom", fail.Error)
}

func TestMessageWireShape(t *testing.T) {
	raw, err := json.Marshal(Message{
		Type:      MsgGetData,
		RequestID: "req-1",
		Payload:   DataIDPayload{DataID: "r1"},
	})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"GET_DATA","requestId":"req-1","payload":{"dataId":"r1"}}`, string(raw))
}

func TestPermissionRecordHelpers(t *testing.T) {
	record := PermissionRecord{
		Status:      PermissionStatusActive,
		Permissions: []Permission{PermissionRead},
	}
	assert.True(t, record.Active())
	assert.True(t, record.Has(PermissionRead))
	assert.False(t, record.Has(PermissionWrite))

	record.Status = PermissionStatusRevoked
	assert.False(t, record.Active())
}
