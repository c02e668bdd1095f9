package service

import (
	"context"
	"log/slog"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/outcome"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
)

// ExhibitService answers "what exhibits does this author have" and
// records new exhibit references for logged-in users.
type ExhibitService struct {
	users    repository.UserRepository
	exhibits repository.ExhibitRepository
	packages *PackageService
	logger   *slog.Logger
}

// NewExhibitService creates an ExhibitService.
func NewExhibitService(
	users repository.UserRepository,
	exhibits repository.ExhibitRepository,
	packages *PackageService,
	logger *slog.Logger,
) *ExhibitService {
	return &ExhibitService{
		users:    users,
		exhibits: exhibits,
		packages: packages,
		logger:   logger,
	}
}

// AuthorExhibits resolves an author name to a tagged outcome:
//
//   - a known user → AuthorExhibitsFetched with their exhibit references
//     (an empty list is a valid success, not an error)
//   - an unknown user who publishes elm packages → the packages-bearing
//     AuthorNotFound variant, so the frontend can point at those instead
//   - otherwise → AuthorNotFound
//
// The package lookup rides the same cache-aside path as everything else,
// so an unknown-author request does not necessarily cost a live fetch.
func (s *ExhibitService) AuthorExhibits(ctx context.Context, author string) outcome.Body {
	userID, known := s.users.GetUserIDByUsername(ctx, author).Get()
	if !known {
		packages, ok := s.packages.GetElmPackages(ctx).Get()
		if !ok {
			return outcome.AuthorNotFound()
		}

		authorPackages := FilterByAuthor(author, packages)
		if len(authorPackages) == 0 {
			return outcome.AuthorNotFound()
		}
		return outcome.NewAuthorNotFoundWithPackages(authorPackages)
	}

	references, ok := s.exhibits.GetExhibitReferencesByUserID(ctx, userID).Get()
	if !ok {
		return outcome.NoIdea()
	}

	return outcome.NewAuthorExhibitsFetched(references)
}

// CreateExhibit records an exhibit reference for the session's user.
// The repository fails closed when the user record is missing, so a stale
// session cannot manufacture index entries.
func (s *ExhibitService) CreateExhibit(ctx context.Context, session model.UserSession, exhibitName string) bool {
	created := s.exhibits.CreateExhibitReference(ctx, session.UserID, exhibitName)
	if created {
		s.logger.Info("exhibit reference created",
			slog.String("username", session.Username),
			slog.String("exhibit", exhibitName),
		)
	}
	return created
}
