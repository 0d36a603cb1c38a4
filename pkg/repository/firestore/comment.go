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

type voterDocument struct {
	UserID string `firestore:"user_id"`
	Vote   string `firestore:"vote"`
}

type commentDocument struct {
	ID        string          `firestore:"id"`
	RiskID    string          `firestore:"risk_id"`
	AuthorID  string          `firestore:"author_id"`
	Body      string          `firestore:"body"`
	Upvotes   int             `firestore:"upvotes"`
	Downvotes int             `firestore:"downvotes"`
	Voters    []voterDocument `firestore:"voters"`
	CreatedAt time.Time       `firestore:"created_at"`
	UpdatedAt time.Time       `firestore:"updated_at"`
}

func toVoterDocuments(voters []model.Voter) []voterDocument {
	docs := make([]voterDocument, len(voters))
	for i, v := range voters {
		docs[i] = voterDocument{UserID: v.UserID, Vote: string(v.Vote)}
	}
	return docs
}

func (d *commentDocument) toModel() *model.Comment {
	voters := make([]model.Voter, len(d.Voters))
	for i, v := range d.Voters {
		voters[i] = model.Voter{UserID: v.UserID, Vote: types.VoteType(v.Vote)}
	}

	c := &model.Comment{
		ID:        d.ID,
		RiskID:    d.RiskID,
		AuthorID:  d.AuthorID,
		Body:      d.Body,
		Upvotes:   d.Upvotes,
		Downvotes: d.Downvotes,
		Voters:    voters,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	c.Normalize()
	return c
}

// The revision of a comment is the document update time; Firestore rejects a write carrying
// a LastUpdateTime precondition that no longer matches.
func encodeRevision(t time.Time) model.Revision {
	return model.Revision(t.UTC().Format(time.RFC3339Nano))
}

func decodeRevision(rev model.Revision) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, string(rev))
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "malformed revision", goerr.V("revision", rev))
	}
	return t, nil
}

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{
		client: client,
	}
}

func (r *commentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "comments"))
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	now := time.Now().UTC()
	doc := &commentDocument{
		ID:        uuid.NewString(),
		RiskID:    comment.RiskID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		Voters:    []voterDocument{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment",
			goerr.V(model.CommentIDKey, doc.ID),
			goerr.V(model.RiskIDKey, doc.RiskID))
	}

	return doc.toModel(), nil
}

func (r *commentRepository) Get(ctx context.Context, id string) (*model.Comment, model.Revision, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, "", goerr.Wrap(ErrNotFound, "comment not found", goerr.V(model.CommentIDKey, id))
		}
		return nil, "", goerr.Wrap(err, "failed to get comment", goerr.V(model.CommentIDKey, id))
	}

	var doc commentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, "", goerr.Wrap(err, "failed to unmarshal comment", goerr.V(model.CommentIDKey, id))
	}

	return doc.toModel(), encodeRevision(snap.UpdateTime), nil
}

func (r *commentRepository) ListByRisk(ctx context.Context, riskID string) ([]*model.Comment, error) {
	iter := r.collection().
		Where("risk_id", "==", riskID).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var comments []*model.Comment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V(model.RiskIDKey, riskID))
		}

		var doc commentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal comment", goerr.V("doc_id", snap.Ref.ID))
		}
		comments = append(comments, doc.toModel())
	}

	return comments, nil
}

func (r *commentRepository) UpdateVotes(ctx context.Context, comment *model.Comment, expected model.Revision) (*model.Comment, model.Revision, error) {
	lastUpdate, err := decodeRevision(expected)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	updates := []firestore.Update{
		{Path: "upvotes", Value: comment.Upvotes},
		{Path: "downvotes", Value: comment.Downvotes},
		{Path: "voters", Value: toVoterDocuments(comment.Voters)},
		{Path: "updated_at", Value: now},
	}

	wr, err := r.collection().Doc(comment.ID).Update(ctx, updates, firestore.LastUpdateTime(lastUpdate))
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, "", goerr.Wrap(ErrNotFound, "comment not found", goerr.V(model.CommentIDKey, comment.ID))
		case codes.FailedPrecondition, codes.Aborted:
			return nil, "", goerr.Wrap(model.ErrRevisionConflict, "comment was modified concurrently",
				goerr.V(model.CommentIDKey, comment.ID),
				goerr.V("expected", expected),
				goerr.V("cause", err.Error()))
		default:
			return nil, "", goerr.Wrap(err, "failed to update comment votes", goerr.V(model.CommentIDKey, comment.ID))
		}
	}

	updated := comment.Copy()
	updated.UpdatedAt = now
	return updated, encodeRevision(wr.UpdateTime), nil
}
