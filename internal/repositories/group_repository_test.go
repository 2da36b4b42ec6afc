package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestAddMemberAlreadyMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT id FROM groups WHERE id=$1 FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(q(`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT (group_id, user_id) DO NOTHING`)).WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AddMember(context.Background(), 3, 9)
	require.ErrorIs(t, err, ErrAlreadyMember)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT id FROM groups WHERE id=$1 FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(q(`INSERT INTO group_members`)).WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddMember(context.Background(), 3, 9))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberNotMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT id FROM groups WHERE id=$1 FOR UPDATE`)).WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectExec(q(`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`)).WithArgs(3, 9).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
	}

	require.ErrorIs(t, repo.RemoveMember(context.Background(), 3, 9), ErrNotMember)
	require.ErrorIs(t, repo.RemoveMember(context.Background(), 3, 9), ErrNotMember)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupInsertsOwnerMembership(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO groups (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs("Anime Club", "weekly picks", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(q(`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`)).WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q(`SELECT g.id, g.name`)).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "owner_id", "owner_name", "created_at"}).
			AddRow(5, "Anime Club", "weekly picks", 1, "alice", time.Now()))
	mock.ExpectCommit()

	group, err := repo.CreateGroup(context.Background(), 1, "Anime Club", "weekly picks")
	require.NoError(t, err)
	require.Equal(t, 5, group.ID)
	require.Equal(t, "alice", group.OwnerName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupUnknownOwnerIsIntegrityViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO groups (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id`)).WithArgs("Anime Club", "", 42).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint \"groups_owner_id_fkey\""})
	mock.ExpectRollback()

	_, err := repo.CreateGroup(context.Background(), 42, "Anime Club", "")
	require.ErrorIs(t, err, ErrIntegrity)
	require.NoError(t, mock.ExpectationsWereMet())
}
