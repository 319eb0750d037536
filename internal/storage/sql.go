package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// sqlStore implements Store against any sqlx.DB backend (SQLite or
// Postgres). Queries are written with `?` placeholders and rebound per
// backend via sqlx's Rebind, sharing the same SQL text across both
// storage drivers.
type sqlStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

func (s *sqlStore) rebind(query string) string {
	return s.db.Rebind(query)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// --- Hrönirs ---

func (s *sqlStore) SaveHronir(ctx context.Context, h *models.Hronir) (bool, error) {
	existing, err := s.GetHronir(ctx, h.ID)
	if err == nil {
		*h = *existing
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	query := s.rebind(`INSERT INTO hronirs (id, text, created_at) VALUES (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, h.ID, h.Text, h.CreatedAt); err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqlStore) GetHronir(ctx context.Context, id uuid.UUID) (*models.Hronir, error) {
	var h models.Hronir
	query := s.rebind(`SELECT id, text, created_at FROM hronirs WHERE id = ?`)
	if err := s.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *sqlStore) HronirExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.GetHronir(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// --- Paths ---

func (s *sqlStore) SavePath(ctx context.Context, p *models.Path) (bool, error) {
	existing, err := s.FindPath(ctx, p.Position, p.Predecessor, p.Current)
	if err == nil {
		*p = *existing
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	query := s.rebind(`
		INSERT INTO paths (path_uuid, position, predecessor, current, status, mandate_id, is_canonical, elo_rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = s.db.ExecContext(ctx, query,
		p.PathUUID, p.Position, p.Predecessor, p.Current, p.Status,
		p.MandateID, p.IsCanonical, p.EloRating, p.CreatedAt)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqlStore) GetPath(ctx context.Context, pathUUID uuid.UUID) (*models.Path, error) {
	var p models.Path
	query := s.rebind(`SELECT * FROM paths WHERE path_uuid = ?`)
	if err := s.db.GetContext(ctx, &p, query, pathUUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *sqlStore) FindPath(ctx context.Context, position int, predecessor, current uuid.UUID) (*models.Path, error) {
	var p models.Path
	query := s.rebind(`SELECT * FROM paths WHERE position = ? AND predecessor = ? AND current = ?`)
	if err := s.db.GetContext(ctx, &p, query, position, predecessor, current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *sqlStore) ListCohort(ctx context.Context, position int, predecessor uuid.UUID) ([]*models.Path, error) {
	var paths []*models.Path
	query := s.rebind(`SELECT * FROM paths WHERE position = ? AND predecessor = ? ORDER BY path_uuid`)
	if err := s.db.SelectContext(ctx, &paths, query, position, predecessor); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *sqlStore) ListAllPaths(ctx context.Context) ([]*models.Path, error) {
	var paths []*models.Path
	query := `SELECT * FROM paths ORDER BY position, path_uuid`
	if err := s.db.SelectContext(ctx, &paths, query); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *sqlStore) UpdatePathElo(ctx context.Context, pathUUID uuid.UUID, elo float64) error {
	query := s.rebind(`UPDATE paths SET elo_rating = ? WHERE path_uuid = ?`)
	_, err := s.db.ExecContext(ctx, query, elo, pathUUID)
	return err
}

func (s *sqlStore) UpdatePathStatus(ctx context.Context, pathUUID uuid.UUID, status models.PathStatus) error {
	query := s.rebind(`UPDATE paths SET status = ? WHERE path_uuid = ?`)
	_, err := s.db.ExecContext(ctx, query, status, pathUUID)
	return err
}

func (s *sqlStore) SetCanonical(ctx context.Context, position int, pathUUID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	clear := s.rebind(`UPDATE paths SET is_canonical = ? WHERE position = ?`)
	if _, err := tx.ExecContext(ctx, clear, false, position); err != nil {
		return err
	}
	set := s.rebind(`UPDATE paths SET is_canonical = ? WHERE path_uuid = ?`)
	if _, err := tx.ExecContext(ctx, set, true, pathUUID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqlStore) ClearCanonicalFrom(ctx context.Context, position int) error {
	query := s.rebind(`UPDATE paths SET is_canonical = ? WHERE position >= ?`)
	_, err := s.db.ExecContext(ctx, query, false, position)
	return err
}

func (s *sqlStore) GetCanonicalAt(ctx context.Context, position int) (*models.Path, error) {
	var p models.Path
	query := s.rebind(`SELECT * FROM paths WHERE position = ? AND is_canonical = ?`)
	if err := s.db.GetContext(ctx, &p, query, position, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *sqlStore) MaxPosition(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	query := `SELECT MAX(position) FROM paths`
	if err := s.db.GetContext(ctx, &max, query); err != nil {
		return 0, false, err
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// --- Mandate/voting bookkeeping ---

func (s *sqlStore) CountVoteParticipations(ctx context.Context, pathUUID uuid.UUID) (int, error) {
	var count int
	query := s.rebind(`SELECT COUNT(*) FROM votes WHERE path_a = ? OR path_b = ?`)
	if err := s.db.GetContext(ctx, &count, query, pathUUID, pathUUID); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *sqlStore) IsTokenConsumed(ctx context.Context, pathUUID uuid.UUID) (bool, error) {
	var count int
	query := s.rebind(`SELECT COUNT(*) FROM consumed_tokens WHERE voting_token = ?`)
	if err := s.db.GetContext(ctx, &count, query, pathUUID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Ledger ---

func (s *sqlStore) LatestTransaction(ctx context.Context) (*models.Transaction, bool, error) {
	var t models.Transaction
	query := `SELECT * FROM transactions ORDER BY sequence DESC LIMIT 1`
	if err := s.db.GetContext(ctx, &t, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &t, true, nil
}

func (s *sqlStore) AllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	query := `SELECT * FROM transactions ORDER BY sequence ASC`
	if err := s.db.SelectContext(ctx, &txs, query); err != nil {
		return nil, err
	}
	for _, t := range txs {
		votes, err := s.votesForTx(ctx, t.TxID)
		if err != nil {
			return nil, err
		}
		t.Votes = votes
	}
	return txs, nil
}

func (s *sqlStore) votesForTx(ctx context.Context, txID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	query := s.rebind(`SELECT * FROM votes WHERE tx_id = ? ORDER BY position`)
	if err := s.db.SelectContext(ctx, &votes, query, txID); err != nil {
		return nil, err
	}
	return votes, nil
}

// CommitVoteTransaction implements the atomic commitsteps 3-5.
func (s *sqlStore) CommitVoteTransaction(ctx context.Context, txn models.Transaction, votingToken uuid.UUID, eloUpdates []EloUpdate, qualUpdates []QualificationUpdate) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertVote := tx.Rebind(`
		INSERT INTO votes (vote_id, position, voting_token, path_a, path_b, chosen_side, tx_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, v := range txn.Votes {
		if _, err := tx.ExecContext(ctx, insertVote, v.VoteID, v.Position, v.VotingToken, v.PathA, v.PathB, v.ChosenSide, txn.TxID, v.CreatedAt); err != nil {
			return err
		}
	}

	updateElo := tx.Rebind(`UPDATE paths SET elo_rating = ? WHERE path_uuid = ?`)
	for _, u := range eloUpdates {
		if _, err := tx.ExecContext(ctx, updateElo, u.Elo, u.PathUUID); err != nil {
			return err
		}
	}

	updateStatus := tx.Rebind(`UPDATE paths SET status = ? WHERE path_uuid = ?`)
	updateStatusAndMandate := tx.Rebind(`UPDATE paths SET status = ?, mandate_id = ? WHERE path_uuid = ?`)
	for _, u := range qualUpdates {
		if u.MandateID != nil {
			if _, err := tx.ExecContext(ctx, updateStatusAndMandate, u.Status, u.MandateID, u.PathUUID); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, updateStatus, u.Status, u.PathUUID); err != nil {
			return err
		}
	}

	spendToken := tx.Rebind(`UPDATE paths SET status = ? WHERE path_uuid = ?`)
	if _, err := tx.ExecContext(ctx, spendToken, models.StatusSpent, votingToken); err != nil {
		return err
	}
	insertConsumed := tx.Rebind(`INSERT INTO consumed_tokens (voting_token) VALUES (?)`)
	if _, err := tx.ExecContext(ctx, insertConsumed, votingToken); err != nil {
		return err
	}

	insertTx := tx.Rebind(`
		INSERT INTO transactions (tx_id, sequence, prev_sequence, prev_tx_hash, voting_token, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := tx.ExecContext(ctx, insertTx,
		txn.TxID, txn.Sequence, txn.PrevSequence, txn.PrevTxHash, votingToken, txn.ContentHash, txn.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}

	// Vote rows reference transactions(tx_id), so they follow the
	// transaction row.
	for _, v := range txn.Votes {
		if _, err := tx.ExecContext(ctx, insertVote, v.VoteID, v.Position, v.VotingToken, v.PathA, v.PathB, v.ChosenSide, txn.TxID, v.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// isUniqueViolation recognizes the sequence-uniqueness race
// ("the caller receives ErrConflict when another transaction has committed a
// higher sequence since read") across both backend drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
