// Package pageapi is the vault surface exposed to hosted web content: thin
// promise-like wrappers over the cross-context messenger, one per message
// type, each with its own timeout.
package pageapi

import (
	"context"
	"fmt"

	"github.com/nillion-vault/vault-engine/pkg/bus"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

// Client is the injected page-level API.
type Client struct {
	messenger *bus.Messenger
}

// NewClient creates a Client over the messenger.
func NewClient(messenger *bus.Messenger) *Client {
	return &Client{messenger: messenger}
}

// IsAvailable reports whether the vault messenger is reachable.
func (c *Client) IsAvailable() bool {
	return c != nil && c.messenger != nil
}

// RequestPermission asks the user to authorize the calling app.
func (c *Client) RequestPermission(ctx context.Context, appID, appName string, permissions []models.Permission, message string) (any, error) {
	return c.call(ctx, models.MsgRequestPermission, models.RequestPermissionPayload{
		AppID:       appID,
		AppName:     appName,
		Permissions: permissions,
		Message:     message,
	})
}

// GetDID returns the user's identity.
func (c *Client) GetDID(ctx context.Context) (models.DID, error) {
	data, err := c.call(ctx, models.MsgGetDID, nil)
	if err != nil {
		return models.DID{}, err
	}
	var did models.DID
	if err := models.DecodePayload(data, &did); err != nil {
		return models.DID{}, err
	}
	return did, nil
}

// GetData returns one record by id.
func (c *Client) GetData(ctx context.Context, dataID string) (models.DataRecord, error) {
	data, err := c.call(ctx, models.MsgGetData, models.DataIDPayload{DataID: dataID})
	if err != nil {
		return models.DataRecord{}, err
	}
	var record models.DataRecord
	if err := models.DecodePayload(data, &record); err != nil {
		return models.DataRecord{}, err
	}
	return record, nil
}

// SetData stores content under the given id.
func (c *Client) SetData(ctx context.Context, dataID, content string) error {
	_, err := c.call(ctx, models.MsgSetData, models.SetDataPayload{DataID: dataID, Content: content})
	return err
}

// DeleteData removes a record by id.
func (c *Client) DeleteData(ctx context.Context, dataID string) error {
	_, err := c.call(ctx, models.MsgDeleteData, models.DataIDPayload{DataID: dataID})
	return err
}

// ListData returns all records.
func (c *Client) ListData(ctx context.Context) ([]models.DataRecord, error) {
	data, err := c.call(ctx, models.MsgListData, nil)
	if err != nil {
		return nil, err
	}
	var records []models.DataRecord
	if err := models.DecodePayload(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) call(ctx context.Context, msgType models.MessageType, payload any) (any, error) {
	resp, err := c.messenger.Send(ctx, models.Message{Type: msgType, Payload: payload})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s failed: %s", msgType, resp.Error)
	}
	return resp.Data, nil
}
