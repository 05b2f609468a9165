// Package delegation mints the short-lived capability tokens the extension
// uses against the decentralized storage network. Tokens are EdDSA-signed
// JWTs scoped to a single storage command.
package delegation

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Command scopes what a token holder may do.
type Command string

const (
	CommandCreate Command = "nil/db/data/create"
	CommandRead   Command = "nil/db/data/read"
	CommandList   Command = "nil/db/data/list"
	CommandDelete Command = "nil/db/data/delete"
)

// Claims is the delegation token payload.
type Claims struct {
	jwt.RegisteredClaims
	Command string `json:"cmd"`
}

// Token is an issued delegation token with its expiry.
type Token struct {
	Value     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CollectionInfo describes the user-data collection this builder owns.
type CollectionInfo struct {
	CollectionID   string `json:"collectionId"`
	BuilderDID     string `json:"builderDid"`
	CollectionName string `json:"collectionName"`
}

// Issuer signs delegation tokens with the builder keypair. The collection is
// bootstrapped with a fresh id at startup.
type Issuer struct {
	keypair        *Keypair
	ttl            time.Duration
	collectionID   string
	collectionName string
	logger         *zap.Logger
}

// NewIssuer creates an Issuer and bootstraps its collection id.
func NewIssuer(keypair *Keypair, ttl time.Duration, collectionName string, logger *zap.Logger) *Issuer {
	return &Issuer{
		keypair:        keypair,
		ttl:            ttl,
		collectionID:   uuid.NewString(),
		collectionName: collectionName,
		logger:         logger.Named("delegation"),
	}
}

// Collection returns the info served by the collection-info endpoint.
func (i *Issuer) Collection() CollectionInfo {
	return CollectionInfo{
		CollectionID:   i.collectionID,
		BuilderDID:     i.keypair.DID(),
		CollectionName: i.collectionName,
	}
}

// Issue mints a token for userDid scoped to cmd. The audience is the
// builder's own DID until users carry their own keypairs.
func (i *Issuer) Issue(userDid string, cmd Command) (Token, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.keypair.DID(),
			Subject:   userDid,
			Audience:  jwt.ClaimStrings{i.keypair.DID()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Command: string(cmd),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(i.keypair.priv)
	if err != nil {
		return Token{}, fmt.Errorf("sign delegation token: %w", err)
	}

	i.logger.Debug("Delegation token issued",
		zap.String("user_did", userDid),
		zap.String("command", string(cmd)))
	return Token{Value: signed, ExpiresAt: expiresAt.Unix()}, nil
}

// Verify parses and validates a token issued by this builder.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.keypair.Public(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse delegation token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid delegation token")
	}
	return claims, nil
}
