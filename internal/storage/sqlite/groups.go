package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
)

// CreateGroup persists a new group with its initial member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = models.GroupID(uuid.New().String())
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, kind, admin_id, created_at) VALUES (?, ?, ?, ?, ?)",
		string(group.ID), group.Name, string(group.Kind), string(group.AdminID), group.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert group", err)
	}

	for i, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			string(group.ID), string(member), i,
		)
		if err != nil {
			return wrapWriteErr("insert group member", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapWriteErr("commit group", err)
	}

	return nil
}

// GetGroup retrieves a group with its ordered member list.
func (s *SQLiteStore) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, kind, admin_id, created_at FROM groups WHERE id = ?",
		string(id),
	).Scan(&group.ID, &group.Name, &group.Kind, &group.AdminID, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group %s", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position",
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member models.UserID
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}

// ListGroupsForUser retrieves all groups of the given kind the user belongs to.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID models.UserID, kind models.GroupKind) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? AND g.kind = ?
		 ORDER BY g.created_at`,
		string(userID), string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	defer rows.Close()

	var ids []models.GroupID
	for rows.Next() {
		var id models.GroupID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// AddGroupMember appends a user to the end of the group's member list.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID models.GroupID, userID models.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, position)
		 SELECT ?, ?, COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?`,
		string(groupID), string(userID), string(groupID),
	)
	if err != nil {
		return wrapWriteErr("add group member", err)
	}

	return nil
}

// RemoveGroupMember removes a user from the group's member list.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID models.GroupID, userID models.UserID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		string(groupID), string(userID),
	)
	if err != nil {
		return wrapWriteErr("remove group member", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s in group %s", ledger.ErrNotFound, userID, groupID)
	}

	return nil
}
