// Package gateway maps entities onto the record store and unwraps its
// response envelopes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// Resource implements list/get/create/update/delete for one entity type. T is
// the decoded entity, C the create input and P the partial update.
type Resource[T any, C any, P any] struct {
	store    apper.RecordStore
	logger   zerolog.Logger
	table    string
	singular string
	plural   string
	fields   []string
	toCreate func(C) apper.Record
	toUpdate func(P) apper.Record
}

func (r *Resource[T, C, P]) params() apper.FetchParams {
	return apper.FetchParams{Fields: r.fields}
}

// List fetches every record of the table.
func (r *Resource[T, C, P]) List(ctx context.Context) ([]T, error) {
	return r.Find(ctx, r.params())
}

// Find fetches the records matching params.
func (r *Resource[T, C, P]) Find(ctx context.Context, params apper.FetchParams) ([]T, error) {
	op := "fetch " + r.plural
	resp, err := r.store.FetchRecords(ctx, r.table, params)
	data, err := r.unwrap(op, resp, err)
	if err != nil {
		return nil, err
	}

	out := []T{}
	if isEmpty(data) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, r.decodeError(op, err)
	}
	return out, nil
}

// Get fetches a single record. The id is coerced to an integer when it has a
// numeric prefix and passed through otherwise.
func (r *Resource[T, C, P]) Get(ctx context.Context, id string) (*T, error) {
	op := "fetch " + r.singular
	resp, err := r.store.GetRecordByID(ctx, r.table, models.CoerceID(id), r.params())
	data, err := r.unwrap(op, resp, err)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(op, data)
}

func (r *Resource[T, C, P]) Create(ctx context.Context, input C) (*T, error) {
	return r.create(ctx, "create "+r.singular, input)
}

func (r *Resource[T, C, P]) create(ctx context.Context, op string, input C) (*T, error) {
	rec := r.toCreate(input)
	resp, err := r.store.CreateRecord(ctx, r.table, apper.RecordsParams{Records: []apper.Record{rec}})
	data, err := r.unwrap(op, resp, err)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(op, data)
}

func (r *Resource[T, C, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	return r.update(ctx, "update "+r.singular, id, patch)
}

func (r *Resource[T, C, P]) update(ctx context.Context, op, id string, patch P) (*T, error) {
	rec := r.toUpdate(patch)
	rec["Id"] = models.CoerceID(id)
	resp, err := r.store.UpdateRecord(ctx, r.table, apper.RecordsParams{Records: []apper.Record{rec}})
	data, err := r.unwrap(op, resp, err)
	if err != nil {
		return nil, err
	}
	return r.decodeOne(op, data)
}

func (r *Resource[T, C, P]) Delete(ctx context.Context, id string) error {
	op := "delete " + r.singular
	resp, err := r.store.DeleteRecord(ctx, r.table, apper.DeleteParams{RecordIDs: []any{models.CoerceID(id)}})
	_, err = r.unwrap(op, resp, err)
	return err
}

// unwrap applies the envelope rules shared by every operation.
func (r *Resource[T, C, P]) unwrap(op string, resp *apper.Response, err error) (json.RawMessage, error) {
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("table", r.table).
			Str("op", op).
			Msg("record store call failed")
		return nil, &RemoteRejection{Op: op, Message: err.Error(), Err: err}
	}
	if resp == nil {
		return nil, &RemoteRejection{Op: op, Message: "empty response"}
	}
	if !resp.Success {
		r.logger.Error().
			Str("table", r.table).
			Str("op", op).
			Str("message", resp.Message).
			Msg("record store rejected request")
		return nil, &RemoteRejection{Op: op, Message: resp.Message}
	}
	if resp.Results == nil {
		return resp.Data, nil
	}

	var succeeded []json.RawMessage
	var failed []apper.Result
	for _, res := range resp.Results {
		if res.Success {
			succeeded = append(succeeded, res.Data)
		} else {
			failed = append(failed, res)
		}
	}

	if len(failed) > 0 {
		r.logger.Error().
			Str("table", r.table).
			Str("op", op).
			Int("failed", len(failed)).
			Interface("results", failed).
			Msg("record store reported failed records")
		if len(succeeded) > 0 {
			r.logger.Warn().
				Str("table", r.table).
				Str("op", op).
				Int("succeeded", len(succeeded)).
				Msg("batch partially applied")
		}
		return nil, &RemoteRejection{Op: op, Message: failed[0].Message, Succeeded: succeeded}
	}
	if len(succeeded) == 0 {
		return nil, &RemoteRejection{Op: op}
	}
	return succeeded[0], nil
}

func (r *Resource[T, C, P]) decodeOne(op string, data json.RawMessage) (*T, error) {
	if isEmpty(data) {
		return nil, &RemoteRejection{Op: op, Message: "record not returned"}
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, r.decodeError(op, err)
	}
	return &out, nil
}

func (r *Resource[T, C, P]) decodeError(op string, err error) error {
	r.logger.Error().
		Err(err).
		Str("table", r.table).
		Str("op", op).
		Msg("failed to decode record")
	return &RemoteRejection{Op: op, Message: err.Error(), Err: err}
}

func isEmpty(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
