package repository

import (
	"context"
	"encoding/json"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/infra/database/models"
)

const allBatchSize = 100

// IssueRepository stores issues in Postgres. Insertion order is the serial Seq column.
type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) Insert(ctx context.Context, issue domain.Issue) error {
	if err := issue.Validate(); err != nil {
		return err
	}

	model, err := toModel(issue)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// associations are written explicitly below
		if err := tx.Omit(clause.Associations).Create(&model).Error; err != nil {
			return err
		}
		for _, u := range model.Updates {
			u.IssueID = model.ID
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.DuplicateIDError{ID: issue.ID}
	}
	return err
}

func (r *IssueRepository) Get(ctx context.Context, id string) (domain.Issue, error) {
	issue, err := getIssue(ctx, r.db, id)
	if err != nil {
		return domain.Issue{}, err
	}
	return fromModel(issue)
}

// All fixes the upper bound of the serial at call time and pages through the table
// lazily. Every iteration re-reads the rows below that bound.
func (r *IssueRepository) All(ctx context.Context) iter.Seq2[domain.Issue, error] {
	var bound int64
	boundErr := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&bound).Error

	return func(yield func(domain.Issue, error) bool) {
		if boundErr != nil {
			yield(domain.Issue{}, boundErr)
			return
		}

		var after int64
		for {
			var batch []models.Issue
			err := r.db.WithContext(ctx).
				Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
				Where("seq > ? AND seq <= ?", after, bound).
				Order("seq ASC").
				Limit(allBatchSize).
				Find(&batch).Error
			if err != nil {
				yield(domain.Issue{}, err)
				return
			}

			for _, m := range batch {
				issue, err := fromModel(m)
				if !yield(issue, err) || err != nil {
					return
				}
				after = m.Seq
			}
			if len(batch) < allBatchSize {
				return
			}
		}
	}
}

// Search narrows the rows in SQL and confirms each candidate with Criteria.Matches
// so that the result is identical to the in-memory filter.
func (r *IssueRepository) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Issue, error) {
	query := r.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("seq ASC")

	if condition, args, ok := searchCondition(criteria.Search); ok {
		query = query.Where(condition, args...)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", string(criteria.Status))
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", string(criteria.Category))
	}
	if criteria.Priority != "" {
		query = query.Where("priority = ?", string(criteria.Priority))
	}

	var rows []models.Issue
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Issue, 0, len(rows))
	for _, m := range rows {
		issue, err := fromModel(m)
		if err != nil {
			return nil, err
		}
		if criteria.Matches(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

// AppendUpdate locks the issue row, applies the change in memory and writes it back.
func (r *IssueRepository) AppendUpdate(ctx context.Context, id string, change domain.StatusChange) (domain.Issue, error) {
	var updated domain.Issue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Issue
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&locked).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFoundError{Resource: "issue", ID: id}
		}
		if err != nil {
			return err
		}

		current, err := getIssue(ctx, tx, id)
		if err != nil {
			return err
		}
		issue, err := fromModel(current)
		if err != nil {
			return err
		}
		if err := issue.Apply(change); err != nil {
			return err
		}

		last := issue.Updates[len(issue.Updates)-1]
		if err := tx.Create(&models.IssueUpdate{
			IssueID: id,
			Date:    last.Date,
			Message: last.Message,
			Status:  string(last.Status),
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Issue{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":        string(issue.Status),
				"resolved_date": issue.ResolvedDate,
				"rating":        issue.Rating,
			}).Error; err != nil {
			return err
		}

		updated = issue
		return nil
	})
	if err != nil {
		return domain.Issue{}, err
	}
	return updated, nil
}

// Revision is the total number of issue and update rows. Both tables are
// append-only, so the value grows with every insert and every update.
func (r *IssueRepository) Revision(ctx context.Context) (uint64, error) {
	var issues, updates int64
	if err := r.db.WithContext(ctx).Model(&models.Issue{}).Count(&issues).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.IssueUpdate{}).Count(&updates).Error; err != nil {
		return 0, err
	}
	return uint64(issues + updates), nil
}

func getIssue(ctx context.Context, db *gorm.DB, id string) (models.Issue, error) {
	var issue models.Issue
	err := db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		Take(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Issue{}, domain.NotFoundError{Resource: "issue", ID: id}
	}
	if err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// searchCondition returns an ILIKE prefilter for an ASCII search term. Postgres
// folds non-ASCII case by the database collation, which need not agree with
// strings.ToLower, so other terms are left to Criteria.Matches alone.
func searchCondition(term string) (string, []any, bool) {
	if term == "" || !isASCII(term) {
		return "", nil, false
	}
	pattern := "%" + escapeLike(term) + "%"
	return "title ILIKE ? OR location ILIKE ? OR id ILIKE ?", []any{pattern, pattern, pattern}, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toModel(issue domain.Issue) (models.Issue, error) {
	images := issue.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return models.Issue{}, err
	}

	m := models.Issue{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		Location:     issue.Location,
		Category:     string(issue.Category),
		Priority:     string(issue.Priority),
		Status:       string(issue.Status),
		ReportedBy:   issue.ReportedBy,
		ReportedDate: issue.ReportedDate.UTC(),
		ResolvedDate: issue.ResolvedDate,
		Rating:       issue.Rating,
		Images:       string(imagesJSON),
		ContactName:  issue.Contact.Name,
		ContactPhone: issue.Contact.Phone,
		ContactEmail: issue.Contact.Email,
	}
	if issue.VoiceNote != nil {
		uri := issue.VoiceNote.URI
		m.VoiceURI = &uri
		m.VoiceDuration = issue.VoiceNote.DurationSeconds
	}
	for _, u := range issue.Updates {
		m.Updates = append(m.Updates, models.IssueUpdate{
			IssueID: issue.ID,
			Date:    u.Date.UTC(),
			Message: u.Message,
			Status:  string(u.Status),
		})
	}
	return m, nil
}

func fromModel(m models.Issue) (domain.Issue, error) {
	images := []string{}
	if m.Images != "" {
		if err := json.Unmarshal([]byte(m.Images), &images); err != nil {
			return domain.Issue{}, errors.Wrapf(err, "corrupt images of issue %s", m.ID)
		}
	}

	issue := domain.Issue{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Location:     m.Location,
		Category:     domain.Category(m.Category),
		Priority:     domain.Priority(m.Priority),
		Status:       domain.Status(m.Status),
		ReportedBy:   m.ReportedBy,
		ReportedDate: m.ReportedDate.UTC(),
		Rating:       m.Rating,
		Images:       images,
		Contact: domain.Contact{
			Name:  m.ContactName,
			Phone: m.ContactPhone,
			Email: m.ContactEmail,
		},
		Updates: make([]domain.Update, 0, len(m.Updates)),
	}
	if m.ResolvedDate != nil {
		d := m.ResolvedDate.UTC()
		issue.ResolvedDate = &d
	}
	if m.VoiceURI != nil {
		issue.VoiceNote = &domain.AudioRef{URI: *m.VoiceURI, DurationSeconds: m.VoiceDuration}
	}
	for _, u := range m.Updates {
		issue.Updates = append(issue.Updates, domain.Update{
			Date:    u.Date.UTC(),
			Message: u.Message,
			Status:  domain.Status(u.Status),
		})
	}
	return issue, nil
}
