package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rcg/internal/chart"
)

// Artist returns the artist row for an external id.
func (s *Store) Artist(ctx context.Context, externalID string) (ArtistRecord, error) {
	ctx = ensureContext(ctx)
	var rec ArtistRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT external_id, artist_name, source_a_gender, source_b_gender, gender
		FROM artist WHERE external_id = ?`, externalID,
	).Scan(&rec.ExternalID, &rec.Name, &rec.SourceA, &rec.SourceB, &rec.Gender)
	if errors.Is(err, sql.ErrNoRows) {
		return ArtistRecord{}, fmt.Errorf("%s: %w", externalID, ErrArtistNotFound)
	}
	if err != nil {
		return ArtistRecord{}, fmt.Errorf("query artist %s: %w", externalID, err)
	}
	return rec, nil
}

// SetArtistGender overrides the resolved gender for artists matching key by
// external id or by exact name. The raw source labels are kept.
func (s *Store) SetArtistGender(ctx context.Context, key, label string) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"UPDATE artist SET gender = ? WHERE external_id = ? OR artist_name = ?", label, key, key)
	if err != nil {
		return 0, fmt.Errorf("set gender for %q: %w", key, err)
	}
	n := affected(res)
	if n == 0 {
		return 0, fmt.Errorf("%q: %w", key, ErrArtistNotFound)
	}
	return n, nil
}

// Members returns a collective's members in insertion order. Ids that are
// not collectives return an empty list.
func (s *Store) Members(ctx context.Context, collectiveID string) ([]chart.Member, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_name, member_external_id FROM group_table
		WHERE group_external_id = ? ORDER BY id`, collectiveID)
	if err != nil {
		return nil, fmt.Errorf("query group members %s: %w", collectiveID, err)
	}
	defer rows.Close()
	var members []chart.Member
	for rows.Next() {
		var member chart.Member
		if err := rows.Scan(&member.Name, &member.ExternalID); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddGroupMember records a collective membership. It reports false when the
// membership already existed.
func (s *Store) AddGroupMember(ctx context.Context, groupID string, member chart.Member) (bool, error) {
	if groupID == "" || member.ExternalID == "" {
		return false, errors.New("group and member external ids required")
	}
	res, err := s.execWithRetry(ctx, `
		INSERT OR IGNORE INTO group_table (group_external_id, member_name, member_external_id)
		VALUES (?, ?, ?)`, groupID, member.Name, member.ExternalID)
	if err != nil {
		return false, fmt.Errorf("add group member %s/%s: %w", groupID, member.ExternalID, err)
	}
	return affected(res) > 0, nil
}

// LabelCollectives sets the collective label on every artist that has
// recorded members.
func (s *Store) LabelCollectives(ctx context.Context, label string) (int64, error) {
	res, err := s.execWithRetry(ctx, `
		UPDATE artist SET gender = ?
		WHERE external_id IN (SELECT DISTINCT group_external_id FROM group_table)
		  AND gender != ?`, label, label)
	if err != nil {
		return 0, fmt.Errorf("label collectives: %w", err)
	}
	return affected(res), nil
}
