package db

import (
	"context"
	"fmt"
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/models"
)

const (
	sessionPrefix string = "session"
)

func (r RedisAdapter) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	output := models.Session{}
	// NOTE: HGETALL will return an empty list of hash-keys and hash-values if the key is not found
	// then this is deserialized as an empty (zero-valued) struct
	raw, err := r.rdb.HGetAll(
		ctx,
		r.sessionKey(sessionID),
	).Result()
	if err != nil {
		return output, err
	}
	err = r.deserializeToStruct(raw, &output)
	if err != nil {
		if err == apierrors.ErrMissingDBResource {
			err = apierrors.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	output, err = output.Decrypt(r.encryptor)
	if err != nil {
		return models.Session{}, fmt.Errorf("cannot decrypt the stored session: %w", err)
	}
	return output, nil
}

// SetSession replaces the stored token pair. Both token fields are always written so that
// a cleared refresh token does not survive in the hash.
func (r RedisAdapter) SetSession(ctx context.Context, sessionID string, session models.Session) error {
	encrypted, err := session.Encrypt(r.encryptor)
	if err != nil {
		return err
	}
	key := r.sessionKey(sessionID)
	err = r.rdb.HSet(
		ctx,
		key,
		r.serializeStruct(encrypted)...,
	).Err()
	if err != nil {
		return err
	}
	if r.sessionTTL <= 0 {
		return nil
	}
	return r.rdb.ExpireAt(ctx, key, time.Now().Add(r.sessionTTL)).Err()
}

func (r RedisAdapter) RemoveSession(ctx context.Context, sessionID string) error {
	return r.rdb.Del(
		ctx,
		r.sessionKey(sessionID),
	).Err()
}

func (RedisAdapter) sessionKey(sessionID string) string {
	return sessionPrefix + ":" + sessionID
}
