package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// userDocument keeps the role as the raw string written by the identity provider. It is
// parsed into types.Role when the document is read.
type userDocument struct {
	ID         string `firestore:"id"`
	Name       string `firestore:"name"`
	Email      string `firestore:"email"`
	Role       string `firestore:"role"`
	Department string `firestore:"department"`
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "users"))
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V(model.UserIDKey, id))
	}

	return &model.User{
		ID:         doc.ID,
		Name:       doc.Name,
		Email:      doc.Email,
		Role:       types.ParseRole(doc.Role),
		Department: doc.Department,
	}, nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	doc := &userDocument{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role.String(),
		Department: user.Department,
	}
	if _, err := r.collection().Doc(user.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V(model.UserIDKey, user.ID))
	}
	return nil
}
