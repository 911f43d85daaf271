package service

import (
	"context"
	"errors"
	"testing"

	"studydeck/internal/models"
	"studydeck/internal/repository"

	"github.com/stretchr/testify/require"
)

// threadRepoStub is a stub for repository.ThreadRepository.
type threadRepoStub struct {
	createFn       func(context.Context, *models.Thread) error
	getByIDFn      func(context.Context, uint) (*models.Thread, error)
	listFn         func(context.Context, repository.ThreadListFilter) ([]*models.Thread, int64, error)
	updateFn       func(context.Context, *models.Thread) error
	replaceTagsFn  func(context.Context, *models.Thread, []models.Tag) error
	deleteFn       func(context.Context, uint) error
	setLockedFn    func(context.Context, uint, bool) error
	setPinnedFn    func(context.Context, uint, bool) error
	incrReplyCntFn func(context.Context, uint) error
	decrReplyCntFn func(context.Context, uint) error
}

func (s *threadRepoStub) Create(ctx context.Context, t *models.Thread) error {
	return s.createFn(ctx, t)
}
func (s *threadRepoStub) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	return s.getByIDFn(ctx, id)
}
func (s *threadRepoStub) List(ctx context.Context, f repository.ThreadListFilter) ([]*models.Thread, int64, error) {
	return s.listFn(ctx, f)
}
func (s *threadRepoStub) Update(ctx context.Context, t *models.Thread) error {
	return s.updateFn(ctx, t)
}
func (s *threadRepoStub) ReplaceTags(ctx context.Context, t *models.Thread, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, t, tags)
}
func (s *threadRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *threadRepoStub) SetLocked(ctx context.Context, id uint, locked bool) error {
	return s.setLockedFn(ctx, id, locked)
}
func (s *threadRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *threadRepoStub) IncrementReplyCount(ctx context.Context, id uint) error {
	return s.incrReplyCntFn(ctx, id)
}
func (s *threadRepoStub) DecrementReplyCount(ctx context.Context, id uint) error {
	return s.decrReplyCntFn(ctx, id)
}

func noopThreadRepo() *threadRepoStub {
	return &threadRepoStub{
		createFn: func(_ context.Context, t *models.Thread) error {
			t.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Thread, error) {
			return &models.Thread{ID: id, AuthorID: 1, CategoryID: 1, Title: "t", Content: "c"}, nil
		},
		listFn: func(_ context.Context, _ repository.ThreadListFilter) ([]*models.Thread, int64, error) {
			return nil, 0, nil
		},
		updateFn:       func(_ context.Context, _ *models.Thread) error { return nil },
		replaceTagsFn:  func(_ context.Context, _ *models.Thread, _ []models.Tag) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		setLockedFn:    func(_ context.Context, _ uint, _ bool) error { return nil },
		setPinnedFn:    func(_ context.Context, _ uint, _ bool) error { return nil },
		incrReplyCntFn: func(_ context.Context, _ uint) error { return nil },
		decrReplyCntFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn        func(context.Context, *models.Reply) error
	getByIDFn       func(context.Context, uint) (*models.Reply, error)
	listByThreadFn  func(context.Context, uint, bool) ([]*models.Reply, error)
	updateFn        func(context.Context, *models.Reply) error
	softDeleteFn    func(context.Context, *models.Reply) (bool, error)
	restoreFn       func(context.Context, *models.Reply) (bool, error)
	hardDeleteFn    func(context.Context, *models.Reply) error
	setAnswerFn     func(context.Context, *models.Reply, bool) error
	promoteAnswerFn func(context.Context, *models.Reply) error
}

func (s *replyRepoStub) Create(ctx context.Context, r *models.Reply) error {
	return s.createFn(ctx, r)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListByThread(ctx context.Context, threadID uint, includeDeleted bool) ([]*models.Reply, error) {
	return s.listByThreadFn(ctx, threadID, includeDeleted)
}
func (s *replyRepoStub) Update(ctx context.Context, r *models.Reply) error {
	return s.updateFn(ctx, r)
}
func (s *replyRepoStub) SoftDelete(ctx context.Context, r *models.Reply) (bool, error) {
	return s.softDeleteFn(ctx, r)
}
func (s *replyRepoStub) Restore(ctx context.Context, r *models.Reply) (bool, error) {
	return s.restoreFn(ctx, r)
}
func (s *replyRepoStub) HardDelete(ctx context.Context, r *models.Reply) error {
	return s.hardDeleteFn(ctx, r)
}
func (s *replyRepoStub) SetAnswer(ctx context.Context, r *models.Reply, answer bool) error {
	return s.setAnswerFn(ctx, r, answer)
}
func (s *replyRepoStub) PromoteAnswer(ctx context.Context, r *models.Reply) error {
	return s.promoteAnswerFn(ctx, r)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn: func(_ context.Context, r *models.Reply) error {
			r.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, ThreadID: 1, AuthorID: 1, Content: "c"}, nil
		},
		listByThreadFn:  func(_ context.Context, _ uint, _ bool) ([]*models.Reply, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Reply) error { return nil },
		softDeleteFn:    func(_ context.Context, _ *models.Reply) (bool, error) { return true, nil },
		restoreFn:       func(_ context.Context, _ *models.Reply) (bool, error) { return true, nil },
		hardDeleteFn:    func(_ context.Context, _ *models.Reply) error { return nil },
		setAnswerFn:     func(_ context.Context, _ *models.Reply, _ bool) error { return nil },
		promoteAnswerFn: func(_ context.Context, _ *models.Reply) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn         func(context.Context, uint, models.Target) (bool, int, error)
	hasLikedFn       func(context.Context, uint, models.Target) (bool, error)
	countForTargetFn func(context.Context, models.Target) (int64, error)
	likedTargetIDsFn func(context.Context, uint, models.TargetKind, []uint) ([]uint, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID uint, target models.Target) (bool, int, error) {
	return s.toggleFn(ctx, userID, target)
}
func (s *likeRepoStub) HasLiked(ctx context.Context, userID uint, target models.Target) (bool, error) {
	return s.hasLikedFn(ctx, userID, target)
}
func (s *likeRepoStub) CountForTarget(ctx context.Context, target models.Target) (int64, error) {
	return s.countForTargetFn(ctx, target)
}
func (s *likeRepoStub) LikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) ([]uint, error) {
	return s.likedTargetIDsFn(ctx, userID, kind, ids)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn: func(_ context.Context, _ uint, _ models.Target) (bool, int, error) {
			return true, 1, nil
		},
		hasLikedFn:       func(_ context.Context, _ uint, _ models.Target) (bool, error) { return false, nil },
		countForTargetFn: func(_ context.Context, _ models.Target) (int64, error) { return 0, nil },
		likedTargetIDsFn: func(_ context.Context, _ uint, _ models.TargetKind, _ []uint) ([]uint, error) {
			return nil, nil
		},
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn         func(context.Context, *models.Report) error
	getByIDFn        func(context.Context, uint) (*models.Report, error)
	listPendingFn    func(context.Context, int, int) ([]*models.Report, int64, error)
	listByReporterFn func(context.Context, uint) ([]*models.Report, error)
	updateFn         func(context.Context, *models.Report) error
}

func (s *reportRepoStub) Create(ctx context.Context, r *models.Report) error {
	return s.createFn(ctx, r)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) ListPending(ctx context.Context, limit, offset int) ([]*models.Report, int64, error) {
	return s.listPendingFn(ctx, limit, offset)
}
func (s *reportRepoStub) ListByReporter(ctx context.Context, reporterID uint) ([]*models.Report, error) {
	return s.listByReporterFn(ctx, reporterID)
}
func (s *reportRepoStub) Update(ctx context.Context, r *models.Report) error {
	return s.updateFn(ctx, r)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, r *models.Report) error {
			r.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Report, error) {
			return &models.Report{ID: id, ReporterID: 1, TargetKind: models.TargetThread, TargetID: 1,
				Reason: "spam", Status: models.ReportStatusPending}, nil
		},
		listPendingFn: func(_ context.Context, _, _ int) ([]*models.Report, int64, error) {
			return nil, 0, nil
		},
		listByReporterFn: func(_ context.Context, _ uint) ([]*models.Report, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Report) error { return nil },
	}
}

// taxonomyRepoStub is a stub for repository.TaxonomyRepository.
type taxonomyRepoStub struct {
	listCategoriesFn    func(context.Context) ([]*models.Category, error)
	getCategoryByIDFn   func(context.Context, uint) (*models.Category, error)
	getCategoryBySlugFn func(context.Context, string) (*models.Category, error)
	listTagsFn          func(context.Context) ([]*models.Tag, error)
	getTagBySlugFn      func(context.Context, string) (*models.Tag, error)
	getTagsByIDsFn      func(context.Context, []uint) ([]models.Tag, error)
}

func (s *taxonomyRepoStub) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.listCategoriesFn(ctx)
}
func (s *taxonomyRepoStub) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getCategoryByIDFn(ctx, id)
}
func (s *taxonomyRepoStub) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getCategoryBySlugFn(ctx, slug)
}
func (s *taxonomyRepoStub) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.listTagsFn(ctx)
}
func (s *taxonomyRepoStub) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.getTagBySlugFn(ctx, slug)
}
func (s *taxonomyRepoStub) GetTagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return s.getTagsByIDsFn(ctx, ids)
}

func noopTaxonomyRepo() *taxonomyRepoStub {
	return &taxonomyRepoStub{
		listCategoriesFn: func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		getCategoryByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "General", Slug: "general"}, nil
		},
		getCategoryBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: "General", Slug: slug}, nil
		},
		listTagsFn:     func(_ context.Context) ([]*models.Tag, error) { return nil, nil },
		getTagBySlugFn: func(_ context.Context, slug string) (*models.Tag, error) { return &models.Tag{ID: 1, Slug: slug}, nil },
		getTagsByIDsFn: func(_ context.Context, ids []uint) ([]models.Tag, error) {
			tags := make([]models.Tag, len(ids))
			for i, id := range ids {
				tags[i] = models.Tag{ID: id}
			}
			return tags, nil
		},
	}
}

// courseRepoStub is a stub for repository.CourseRepository.
type courseRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Course, error)
	listActiveFn func(context.Context) ([]*models.Course, error)
	searchFn     func(context.Context, string) ([]*models.Course, error)
}

func (s *courseRepoStub) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	return s.getByIDFn(ctx, id)
}
func (s *courseRepoStub) ListActive(ctx context.Context) ([]*models.Course, error) {
	return s.listActiveFn(ctx)
}
func (s *courseRepoStub) Search(ctx context.Context, query string) ([]*models.Course, error) {
	return s.searchFn(ctx, query)
}

func noopCourseRepo() *courseRepoStub {
	return &courseRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Course, error) {
			return &models.Course{ID: id, Code: "CS101"}, nil
		},
		listActiveFn: func(_ context.Context) ([]*models.Course, error) { return nil, nil },
		searchFn:     func(_ context.Context, _ string) ([]*models.Course, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getByUsernamesFn func(context.Context, []string) ([]*models.User, error)
	updateFn         func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsernames(ctx context.Context, usernames []string) ([]*models.User, error) {
	return s.getByUsernamesFn(ctx, usernames)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Email: "alice@example.edu", Role: models.RoleStudent}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", 0)
		},
		getByUsernamesFn: func(_ context.Context, _ []string) ([]*models.User, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
	}
}

// notifierStub records notification calls.
type notifierStub struct {
	mentions []string
	replies  []uint
	statuses []string
}

func (n *notifierStub) NotifyMentions(_ context.Context, content string, _ uint, _ string, _ *models.Thread) {
	n.mentions = append(n.mentions, content)
}
func (n *notifierStub) NotifyThreadReply(_ context.Context, thread *models.Thread, _ uint, _, _ string) {
	n.replies = append(n.replies, thread.ID)
}
func (n *notifierStub) NotifyThreadStatus(_ context.Context, _ *models.Thread, action string, _ uint, _ string) {
	n.statuses = append(n.statuses, action)
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	assertAppError(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	assertAppError(t, err, models.CodeForbidden)
}

var student = Actor{ID: 2, Username: "bob", Email: "bob@example.edu", Role: models.RoleStudent}
var author = Actor{ID: 1, Username: "alice", Email: "alice@example.edu", Role: models.RoleStudent}
var moderator = Actor{ID: 9, Username: "mod", Email: "mod@example.edu", Role: models.RoleModerator}
