package service

import (
	"context"
	"time"

	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/database/mongodb/model"
	"ipguard/internal/database/mongodb/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// in-memory 測試替身，行為對齊 mongodb repository

type fakeBlockedIPStore struct {
	entries map[string]*model.BlockedIP
	err     error
}

func newFakeBlockedIPStore() *fakeBlockedIPStore {
	return &fakeBlockedIPStore{entries: make(map[string]*model.BlockedIP)}
}

func (f *fakeBlockedIPStore) GetByIP(ctx context.Context, ip string) (*model.BlockedIP, error) {
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[ip]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return entry, nil
}

func (f *fakeBlockedIPStore) GetOrCreate(ctx context.Context, ip, reason string) (*model.BlockedIP, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if existing, ok := f.entries[ip]; ok {
		return existing, false, nil
	}
	entry := &model.BlockedIP{
		ID:        primitive.NewObjectID(),
		IPAddress: ip,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	f.entries[ip] = entry
	return entry, true, nil
}

func (f *fakeBlockedIPStore) UpdateReason(ctx context.Context, ip, reason string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	entry, ok := f.entries[ip]
	if !ok {
		return 0, nil
	}
	entry.Reason = reason
	return 1, nil
}

func (f *fakeBlockedIPStore) DeleteByIP(ctx context.Context, ip string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.entries[ip]; !ok {
		return 0, nil
	}
	delete(f.entries, ip)
	return 1, nil
}

func (f *fakeBlockedIPStore) List(ctx context.Context, opts core.ListOptions) ([]*model.BlockedIP, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*model.BlockedIP, 0, len(f.entries))
	for _, entry := range f.entries {
		result = append(result, entry)
	}
	return result, nil
}

type fakeRequestLogStore struct {
	created      []*model.RequestLog
	counts       []model.IPRequestCount
	pathEntries  []*model.RequestLog
	createErr    error
	countErr     error
	findPathsErr error
}

func (f *fakeRequestLogStore) Create(ctx context.Context, entry *model.RequestLog) (*model.RequestLog, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, entry)
	return entry, nil
}

func (f *fakeRequestLogStore) CountByIPSince(ctx context.Context, since time.Time) ([]model.IPRequestCount, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

func (f *fakeRequestLogStore) FindByPathsSince(ctx context.Context, since time.Time, paths []string) ([]*model.RequestLog, error) {
	if f.findPathsErr != nil {
		return nil, f.findPathsErr
	}
	return f.pathEntries, nil
}

func (f *fakeRequestLogStore) List(ctx context.Context, opts core.ListOptions) ([]*model.RequestLog, error) {
	return f.created, nil
}

type fakeSuspiciousIPStore struct {
	flagged map[string]string // ip → 第一個寫入的 reason
	err     error
}

func newFakeSuspiciousIPStore() *fakeSuspiciousIPStore {
	return &fakeSuspiciousIPStore{flagged: make(map[string]string)}
}

func (f *fakeSuspiciousIPStore) CreateIfAbsent(ctx context.Context, ip, reason string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.flagged[ip]; ok {
		return false, nil
	}
	f.flagged[ip] = reason
	return true, nil
}

func (f *fakeSuspiciousIPStore) List(ctx context.Context, opts core.ListOptions) ([]*model.SuspiciousIP, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*model.SuspiciousIP, 0, len(f.flagged))
	for ip, reason := range f.flagged {
		result = append(result, &model.SuspiciousIP{
			ID:        primitive.NewObjectID(),
			IPAddress: ip,
			Reason:    reason,
			FlaggedAt: time.Now().UTC(),
		})
	}
	return result, nil
}

type fakeAuditSink struct {
	events []fluentdModel.AuditLog
	err    error
}

func (f *fakeAuditSink) LogEvent(ctx context.Context, event fluentdModel.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
