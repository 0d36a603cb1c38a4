package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID                string    `firestore:"id"`
	AuthorID          string    `firestore:"author_id"`
	IsConfidential    bool      `firestore:"is_confidential"`
	AuthorizedViewers []string  `firestore:"authorized_viewers"`
	Department        string    `firestore:"department"`
	Title             string    `firestore:"title"`
	Content           string    `firestore:"content"`
	Impact            int       `firestore:"impact"`
	Probability       int       `firestore:"probability"`
	StrategyType      string    `firestore:"strategy_type"`
	StrategyDetail    string    `firestore:"strategy_detail"`
	Status            string    `firestore:"status"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:                r.ID,
		AuthorID:          r.AuthorID,
		IsConfidential:    r.IsConfidential,
		AuthorizedViewers: r.AuthorizedViewers,
		Department:        r.Department,
		Title:             r.Title,
		Content:           r.Content,
		Impact:            r.Impact,
		Probability:       r.Probability,
		StrategyType:      string(r.Strategy.Type),
		StrategyDetail:    r.Strategy.Detail,
		Status:            string(r.Status.Normalize()),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:                d.ID,
		AuthorID:          d.AuthorID,
		IsConfidential:    d.IsConfidential,
		AuthorizedViewers: d.AuthorizedViewers,
		Department:        d.Department,
		Title:             d.Title,
		Content:           d.Content,
		Impact:            d.Impact,
		Probability:       d.Probability,
		Strategy: model.Strategy{
			Type:   types.StrategyType(d.StrategyType),
			Detail: d.StrategyDetail,
		},
		Status:    types.RiskStatus(d.Status).Normalize(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client: client,
	}
}

func (r *riskRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "risks"))
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	now := time.Now().UTC()
	created := risk.Copy()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.collection().Doc(created.ID)
	if _, err := docRef.Create(ctx, toRiskDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V(model.RiskIDKey, created.ID))
	}

	return toRiskDocument(created).toModel(), nil
}

func (r *riskRepository) Get(ctx context.Context, id string) (*model.Risk, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V(model.RiskIDKey, id))
	}

	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.collection().OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("doc_id", doc.Ref.ID))
		}
		risks = append(risks, riskDoc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.collection().Doc(risk.ID)

	var updated *riskDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		var existing riskDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		updated = toRiskDocument(risk)
		updated.AuthorID = existing.AuthorID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()

		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	return updated.toModel(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id string) error {
	docRef := r.collection().Doc(id)

	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}

	return nil
}
