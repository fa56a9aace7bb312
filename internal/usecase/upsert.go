package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/domain/team"
)

// upsertStore is the slice of a repository the idempotent upsert needs.
// All entity repositories satisfy it.
type upsertStore[T any] interface {
	GetByExternalID(ctx context.Context, externalID string) (T, bool, error)
	Insert(ctx context.Context, item T) (int64, error)
	Update(ctx context.Context, item T) error
}

type equaler[T any] interface {
	Equal(other T) bool
}

// upsert writes one record keyed by external id. Absent rows are
// inserted, changed rows updated, identical rows left alone. merge
// carries identity fields from the stored row into the desired one
// before comparison; in particular IsActive is preserved, so a
// deactivated row stays deactivated when the provider keeps sending it.
func upsert[T equaler[T]](
	ctx context.Context,
	store upsertStore[T],
	externalID string,
	desired T,
	merge func(existing, desired T) T,
) (syncrun.UpsertOutcome, error) {
	existing, found, err := store.GetByExternalID(ctx, externalID)
	if err != nil {
		return 0, crerr.Wrap(err, "load existing row")
	}
	if !found {
		if _, err := store.Insert(ctx, desired); err != nil {
			return 0, crerr.Wrap(err, "insert row")
		}
		return syncrun.OutcomeCreated, nil
	}

	desired = merge(existing, desired)
	if desired.Equal(existing) {
		return syncrun.OutcomeSkipped, nil
	}
	if err := store.Update(ctx, desired); err != nil {
		return 0, crerr.Wrap(err, "update row")
	}
	return syncrun.OutcomeUpdated, nil
}

func mergeCountry(existing, desired country.Country) country.Country {
	desired.ID = existing.ID
	desired.IsActive = existing.IsActive
	return desired
}

func mergeLeague(existing, desired league.League) league.League {
	desired.ID = existing.ID
	desired.IsActive = existing.IsActive
	return desired
}

func mergeTeam(existing, desired team.Team) team.Team {
	desired.ID = existing.ID
	desired.IsActive = existing.IsActive
	return desired
}

func mergeFixture(existing, desired fixture.Fixture) fixture.Fixture {
	desired.ID = existing.ID
	desired.IsActive = existing.IsActive
	return desired
}
