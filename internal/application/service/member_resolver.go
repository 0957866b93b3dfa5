package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

type MemberResolutionKind int

const (
	// MemberAbsent means no member was referenced; the caller's own
	// customer fields are authoritative.
	MemberAbsent MemberResolutionKind = iota
	MemberResolved
)

// MemberResolution is the outcome of resolving an optional member reference
type MemberResolution struct {
	Kind     MemberResolutionKind
	MemberID uuid.UUID
	Name     string
	Phone    string
}

// MemberResolver turns an optional member reference into the customer
// identity to stamp on a transaction.
type MemberResolver struct {
	memberRepo repository.MemberRepository
}

// NewMemberResolver creates a new member resolver
func NewMemberResolver(memberRepo repository.MemberRepository) *MemberResolver {
	return &MemberResolver{memberRepo: memberRepo}
}

// Resolve returns Absent for a nil reference and the member's name and phone
// otherwise. A reference to a member that does not exist is
// apperror.ErrMemberNotFound, never a silent fallback.
func (r *MemberResolver) Resolve(ctx context.Context, memberID *uuid.UUID) (MemberResolution, error) {
	if memberID == nil || *memberID == uuid.Nil {
		return MemberResolution{Kind: MemberAbsent}, nil
	}

	member, err := r.memberRepo.GetByID(ctx, *memberID)
	if err != nil {
		return MemberResolution{}, apperror.NewStorageError("load member", err)
	}
	if member == nil {
		return MemberResolution{}, apperror.ErrMemberNotFound
	}

	return MemberResolution{
		Kind:     MemberResolved,
		MemberID: member.ID,
		Name:     member.Name,
		Phone:    member.Phone,
	}, nil
}

// CustomerIdentity applies a resolution to the caller-supplied customer
// fields. Without a member both fields must be present.
func (m MemberResolution) CustomerIdentity(name, phone string) (string, string, error) {
	if m.Kind == MemberResolved {
		return m.Name, m.Phone, nil
	}
	if name == "" || phone == "" {
		return "", "", apperror.ErrMissingCustomerInfo
	}
	return name, phone, nil
}
