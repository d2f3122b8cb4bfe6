package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/repository"
	"github.com/vasapolrittideah/devconnector-api/shared/normalize"
	"github.com/vasapolrittideah/devconnector-api/shared/provider"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

// ProfileUsecase defines the business logic for developer profiles.
// userID is always the authenticated account identity.
type ProfileUsecase interface {
	UpsertProfile(ctx context.Context, userID string, params UpsertProfileParams) (*model.Profile, error)
	GetOwnProfile(ctx context.Context, userID string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	GetProfileByOwner(ctx context.Context, ownerID string) (*model.Profile, error)

	// DeleteOwnAccountCascade removes the account's posts, profile and account, in that order.
	DeleteOwnAccountCascade(ctx context.Context, userID string) error

	AddExperience(ctx context.Context, userID string, params ExperienceParams) (*model.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID string) (*model.Profile, error)
	AddEducation(ctx context.Context, userID string, params EducationParams) (*model.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID string) (*model.Profile, error)

	ListExternalRepos(ctx context.Context, username string) ([]provider.RepoSummary, error)
}

// UpsertProfileParams defines the core profile fields. Social links are
// normalized to absolute https URLs.
type UpsertProfileParams struct {
	Department     string `json:"department"     validate:"required"`
	Location       string `json:"location"       validate:"required"`
	Status         string `json:"status"         validate:"required"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type ExperienceParams struct {
	Title       string     `json:"title"       validate:"required"`
	Company     string     `json:"company"     validate:"required"`
	Location    string     `json:"location"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type EducationParams struct {
	Institution  string     `json:"institution"  validate:"required"`
	Degree       string     `json:"degree"       validate:"required"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

type profileUsecase struct {
	profileRepo  repository.ProfileRepository
	accountRepo  repository.AccountRepository
	postRepo     repository.PostRepository
	repoLister   provider.RepoLister
	validator    *validation.Validator
	storeTimeout time.Duration
	logger       *zerolog.Logger
}

func NewProfileUsecase(
	profileRepo repository.ProfileRepository,
	accountRepo repository.AccountRepository,
	postRepo repository.PostRepository,
	repoLister provider.RepoLister,
	validator *validation.Validator,
	storeTimeout time.Duration,
	logger *zerolog.Logger,
) ProfileUsecase {
	return &profileUsecase{
		profileRepo:  profileRepo,
		accountRepo:  accountRepo,
		postRepo:     postRepo,
		repoLister:   repoLister,
		validator:    validator,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (u *profileUsecase) UpsertProfile(
	ctx context.Context,
	userID string,
	params UpsertProfileParams,
) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	fields, err := u.profileFields(params)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	profile, err := u.profileRepo.UpsertProfile(storeCtx, id, fields)
	if err != nil {
		return nil, storeError(err)
	}

	return profile, nil
}

func (u *profileUsecase) profileFields(params UpsertProfileParams) (model.ProfileFields, error) {
	params.Department = strings.TrimSpace(params.Department)
	params.Location = strings.TrimSpace(params.Location)
	params.Status = strings.TrimSpace(params.Status)
	if err := u.validator.Struct(params); err != nil {
		return model.ProfileFields{}, err
	}

	var social model.Social
	links := []struct {
		field string
		raw   string
		dst   *string
	}{
		{"youtube", params.YouTube, &social.YouTube},
		{"twitter", params.Twitter, &social.Twitter},
		{"facebook", params.Facebook, &social.Facebook},
		{"linkedin", params.LinkedIn, &social.LinkedIn},
		{"instagram", params.Instagram, &social.Instagram},
	}

	var fieldErrs []validation.FieldError
	for _, link := range links {
		if strings.TrimSpace(link.raw) == "" {
			continue
		}

		normalized, err := normalize.HTTPSURL(link.raw)
		if err != nil {
			fieldErrs = append(fieldErrs, validation.FieldError{
				Field:   link.field,
				Message: link.field + " must be a valid URL",
			})
			continue
		}
		*link.dst = normalized
	}
	if len(fieldErrs) > 0 {
		return model.ProfileFields{}, &validation.Error{Fields: fieldErrs}
	}

	return model.ProfileFields{
		Department:     params.Department,
		Location:       params.Location,
		Status:         params.Status,
		Bio:            strings.TrimSpace(params.Bio),
		GitHubUsername: strings.TrimSpace(params.GitHubUsername),
		Social:         social,
	}, nil
}

func (u *profileUsecase) GetOwnProfile(ctx context.Context, userID string) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	return u.getProfile(ctx, id)
}

func (u *profileUsecase) GetProfileByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	id, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	return u.getProfile(ctx, id)
}

func (u *profileUsecase) getProfile(ctx context.Context, id bson.ObjectID) (*model.Profile, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	profile, err := u.profileRepo.GetProfileByUser(storeCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError(err)
	}

	return profile, nil
}

func (u *profileUsecase) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	profiles, err := u.profileRepo.ListProfiles(storeCtx)
	if err != nil {
		return nil, storeError(err)
	}

	return profiles, nil
}

func (u *profileUsecase) DeleteOwnAccountCascade(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	deleted, err := u.postRepo.DeletePostsByUser(storeCtx, id)
	if err != nil {
		return storeError(err)
	}

	if err := u.profileRepo.DeleteProfileByUser(storeCtx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}

	if err := u.accountRepo.DeleteAccount(storeCtx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}

	u.logger.Info().Str("user_id", userID).Int64("posts_deleted", deleted).Msg("account deleted")

	return nil
}

func (u *profileUsecase) AddExperience(
	ctx context.Context,
	userID string,
	params ExperienceParams,
) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	params.Title = strings.TrimSpace(params.Title)
	params.Company = strings.TrimSpace(params.Company)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}
	if err := checkPeriod(params.From, params.To); err != nil {
		return nil, err
	}

	entry := model.Experience{
		ID:          bson.NewObjectID(),
		Title:       params.Title,
		Company:     params.Company,
		Location:    strings.TrimSpace(params.Location),
		From:        derefTime(params.From),
		To:          params.To,
		Current:     params.Current,
		Description: strings.TrimSpace(params.Description),
	}

	return u.mutate(ctx, func(storeCtx context.Context) (*model.Profile, error) {
		return u.profileRepo.PushExperience(storeCtx, id, entry)
	})
}

func (u *profileUsecase) AddEducation(
	ctx context.Context,
	userID string,
	params EducationParams,
) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	params.Institution = strings.TrimSpace(params.Institution)
	params.Degree = strings.TrimSpace(params.Degree)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}
	if err := checkPeriod(params.From, params.To); err != nil {
		return nil, err
	}

	entry := model.Education{
		ID:           bson.NewObjectID(),
		Institution:  params.Institution,
		Degree:       params.Degree,
		FieldOfStudy: strings.TrimSpace(params.FieldOfStudy),
		From:         derefTime(params.From),
		To:           params.To,
		Current:      params.Current,
		Description:  strings.TrimSpace(params.Description),
	}

	return u.mutate(ctx, func(storeCtx context.Context) (*model.Profile, error) {
		return u.profileRepo.PushEducation(storeCtx, id, entry)
	})
}

func (u *profileUsecase) RemoveExperience(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	// An id that cannot match any entry leaves the profile unchanged.
	eid, err := bson.ObjectIDFromHex(entryID)
	if err != nil {
		return u.getProfile(ctx, id)
	}

	return u.mutate(ctx, func(storeCtx context.Context) (*model.Profile, error) {
		return u.profileRepo.PullExperience(storeCtx, id, eid)
	})
}

func (u *profileUsecase) RemoveEducation(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	eid, err := bson.ObjectIDFromHex(entryID)
	if err != nil {
		return u.getProfile(ctx, id)
	}

	return u.mutate(ctx, func(storeCtx context.Context) (*model.Profile, error) {
		return u.profileRepo.PullEducation(storeCtx, id, eid)
	})
}

func (u *profileUsecase) mutate(
	ctx context.Context,
	op func(ctx context.Context) (*model.Profile, error),
) (*model.Profile, error) {
	storeCtx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	profile, err := op(storeCtx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError(err)
	}

	return profile, nil
}

func (u *profileUsecase) ListExternalRepos(ctx context.Context, username string) ([]provider.RepoSummary, error) {
	repos, err := u.repoLister.ListRepos(ctx, strings.TrimSpace(username))
	if err != nil {
		u.logger.Warn().Err(err).Str("username", username).Msg("github lookup failed")

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrReposNotFound
	}

	return repos, nil
}

func checkPeriod(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return validation.NewError("to", "to must not be before from")
	}

	return nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
