// Package background implements the extension's background controller: the
// single dispatch point for cross-context messages and the sole writer of
// permission records.
package background

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
	"github.com/nillion-vault/vault-engine/pkg/store"
)

// HandlerFunc processes one typed message and produces its response.
type HandlerFunc func(ctx context.Context, msg models.Message) models.Response

// Dispatcher maps message types to handlers. Adding a message type is a
// table entry, not a growing conditional.
type Dispatcher struct {
	handlers map[models.MessageType]HandlerFunc

	permissions *store.PermissionStore
	data        *store.DataStore
	identity    *store.IdentityStore
	activity    *store.ActivityLog
	logger      *zap.Logger
}

// NewDispatcher wires the handler table over the given stores.
func NewDispatcher(permissions *store.PermissionStore, data *store.DataStore, identity *store.IdentityStore, activity *store.ActivityLog, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		permissions: permissions,
		data:        data,
		identity:    identity,
		activity:    activity,
		logger:      logger.Named("background"),
	}
	d.handlers = map[models.MessageType]HandlerFunc{
		models.MsgRequestPermission: d.handleRequestPermission,
		models.MsgGetDID:            d.handleGetDID,
		models.MsgGetData:           d.handleGetData,
		models.MsgSetData:           d.handleSetData,
		models.MsgDeleteData:        d.handleDeleteData,
		models.MsgListData:          d.handleListData,
		models.MsgGrantPermission:   d.handleGrantPermission,
		models.MsgRevokePermission:  d.handleRevokePermission,
		models.MsgCheckPermission:   d.handleCheckPermission,
		models.MsgLogActivity:       d.handleLogActivity,
	}
	return d
}

// Dispatch routes the message through the handler table. Unknown types
// produce a failure envelope rather than an error.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.Message) models.Response {
	handler, ok := d.handlers[msg.Type]
	if !ok {
		d.logger.Warn("Unknown message type", zap.String("type", string(msg.Type)))
		return models.Fail(msg.RequestID, apperrors.ErrUnknownMessage.Error())
	}
	return handler(ctx, msg)
}

func (d *Dispatcher) handleRequestPermission(ctx context.Context, msg models.Message) models.Response {
	var payload models.RequestPermissionPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	if payload.AppID == "" {
		return models.Fail(msg.RequestID, "appId is required")
	}

	d.activity.Append("permission", "requested",
		fmt.Sprintf("%s requested %v", payload.AppName, payload.Permissions))

	// The page-level request resolves with opaque grant data; the actual
	// persisted grant happens through GRANT_PERMISSION once the user
	// decides in the dialog.
	return models.OK(msg.RequestID, map[string]any{
		"appId":       payload.AppID,
		"appName":     payload.AppName,
		"permissions": payload.Permissions,
		"granted":     true,
	})
}

func (d *Dispatcher) handleGetDID(ctx context.Context, msg models.Message) models.Response {
	did, err := d.identity.Get()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Fail(msg.RequestID, "no identity generated")
		}
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, did)
}

func (d *Dispatcher) handleGetData(ctx context.Context, msg models.Message) models.Response {
	var payload models.DataIDPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	record, err := d.data.Get(payload.DataID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Fail(msg.RequestID, "data not found")
		}
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, record)
}

func (d *Dispatcher) handleSetData(ctx context.Context, msg models.Message) models.Response {
	var payload models.SetDataPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}

	if payload.DataID != "" {
		if _, err := d.data.Update(payload.DataID, payload.Content); err == nil {
			return models.OK(msg.RequestID, map[string]any{"id": payload.DataID, "stored": true})
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return models.Fail(msg.RequestID, err.Error())
		}
	}

	record, err := d.data.Create(models.DataRecord{
		ID:      payload.DataID,
		Name:    payload.DataID,
		Type:    models.DataTypeDocument,
		Content: payload.Content,
	})
	if err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, map[string]any{"id": record.ID, "stored": true})
}

func (d *Dispatcher) handleDeleteData(ctx context.Context, msg models.Message) models.Response {
	var payload models.DataIDPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	if err := d.data.Delete(payload.DataID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Fail(msg.RequestID, "data not found")
		}
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, map[string]any{"id": payload.DataID, "deleted": true})
}

func (d *Dispatcher) handleListData(ctx context.Context, msg models.Message) models.Response {
	records, err := d.data.List("")
	if err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, records)
}

func (d *Dispatcher) handleGrantPermission(ctx context.Context, msg models.Message) models.Response {
	var payload models.GrantPermissionPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}

	record, err := d.permissions.Grant(models.PermissionRecord{
		AppID:       payload.AppID,
		Domain:      payload.Domain,
		SiteName:    payload.SiteName,
		Permissions: payload.Permissions,
		Description: payload.Description,
	})
	if err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}

	d.activity.Append("permission", "granted",
		fmt.Sprintf("%s granted %v", payload.Domain, payload.Permissions))
	return models.OK(msg.RequestID, record)
}

func (d *Dispatcher) handleRevokePermission(ctx context.Context, msg models.Message) models.Response {
	var payload models.RevokePermissionPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	if err := d.permissions.Revoke(payload.PermissionID); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	d.activity.Append("permission", "revoked", payload.PermissionID)
	return models.OK(msg.RequestID, map[string]any{})
}

func (d *Dispatcher) handleCheckPermission(ctx context.Context, msg models.Message) models.Response {
	var payload models.CheckPermissionPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	has, err := d.permissions.Check(payload.Domain)
	if err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	return models.OK(msg.RequestID, map[string]any{"hasPermission": has})
}

// handleLogActivity is fire-and-forget: the caller never waits on it and
// failures are swallowed by the log itself.
func (d *Dispatcher) handleLogActivity(ctx context.Context, msg models.Message) models.Response {
	var payload models.LogActivityPayload
	if err := models.DecodePayload(msg.Payload, &payload); err != nil {
		return models.Fail(msg.RequestID, err.Error())
	}
	d.activity.Append(payload.Type, payload.Action, payload.Details)
	return models.OK(msg.RequestID, nil)
}
