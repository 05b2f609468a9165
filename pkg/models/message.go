package models

import (
	"encoding/json"
	"fmt"
)

// MessageType tags a cross-context request.
type MessageType string

const (
	MsgRequestPermission MessageType = "REQUEST_PERMISSION"
	MsgGetDID            MessageType = "GET_DID"
	MsgGetData           MessageType = "GET_DATA"
	MsgSetData           MessageType = "SET_DATA"
	MsgDeleteData        MessageType = "DELETE_DATA"
	MsgListData          MessageType = "LIST_DATA"
	MsgGrantPermission   MessageType = "GRANT_PERMISSION"
	MsgRevokePermission  MessageType = "REVOKE_PERMISSION"
	MsgCheckPermission   MessageType = "CHECK_PERMISSION"
	MsgLogActivity       MessageType = "LOG_ACTIVITY"
)

// PermissionKind reports whether the message type is a permission request,
// which carries the longer of the two messenger timeouts.
func (t MessageType) PermissionKind() bool {
	return t == MsgRequestPermission || t == MsgGrantPermission
}

// Message is the request half of the cross-context envelope. RequestID
// correlates the eventual response; Origin is set by the content-script
// relay for page-originated messages.
type Message struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	Origin    string      `json:"origin,omitempty"`
	Payload   any         `json:"payload,omitempty"`
}

// Response is the reply half of the envelope, correlated by RequestID.
type Response struct {
	RequestID string `json:"requestId,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// OK builds a success response correlated to the given request id.
func OK(requestID string, data any) Response {
	return Response{RequestID: requestID, Success: true, Data: data}
}

// Fail builds a failure response correlated to the given request id.
func Fail(requestID, errMsg string) Response {
	return Response{RequestID: requestID, Success: false, Error: errMsg}
}

// Typed payloads for the message taxonomy.

type RequestPermissionPayload struct {
	AppID       string       `json:"appId"`
	AppName     string       `json:"appName"`
	Permissions []Permission `json:"permissions"`
	Message     string       `json:"message,omitempty"`
}

type GrantPermissionPayload struct {
	AppID       string       `json:"appId"`
	SiteName    string       `json:"siteName"`
	Domain      string       `json:"domain"`
	Permissions []Permission `json:"permissions"`
	Description string       `json:"description,omitempty"`
}

type RevokePermissionPayload struct {
	PermissionID string `json:"permissionId"`
}

type CheckPermissionPayload struct {
	Domain string `json:"domain"`
}

type DataIDPayload struct {
	DataID string `json:"dataId"`
}

type SetDataPayload struct {
	DataID  string `json:"dataId"`
	Content string `json:"content"`
}

type LogActivityPayload struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Details string `json:"details,omitempty"`
}

// DecodePayload converts a message payload into the given typed struct.
// Payloads cross context boundaries as JSON, so decoding goes through a JSON
// round trip regardless of whether the payload is already a typed value or a
// generic map.
func DecodePayload(payload any, out any) error {
	if payload == nil {
		return fmt.Errorf("missing payload")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
