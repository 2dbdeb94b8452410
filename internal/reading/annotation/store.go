// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package annotation

import "context"

// Repository persists annotations.
type Repository interface {
	ListByBook(ctx context.Context, userID, bookID int64) ([]*Annotation, error)
	FindByID(ctx context.Context, id int64) (*Annotation, error)
	Create(ctx context.Context, annotation *Annotation) error
	Update(ctx context.Context, annotation *Annotation) error
	Delete(ctx context.Context, id int64) error
}
