// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package annotation stores the text notes readers pin onto book pages.
//
// Positions are relative to the rendered page (0 to 1 on both axes) so a note
// stays in place whatever the viewer zoom is.
package annotation

import (
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Box defaults applied when the client leaves them out.
const (
	DefaultWidth    = 200
	DefaultHeight   = 60
	DefaultFontSize = 14
)

// Annotation is a note placed on a page.
type Annotation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Page      int       `json:"page"`
	PosX      float64   `json:"x"`
	PosY      float64   `json:"y"`
	Body      string    `json:"text"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	FontSize  int       `json:"font_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput is the payload of CreateAnnotation.
type CreateInput struct {
	BookID   int64   `json:"book_id"`
	Page     int     `json:"page"`
	PosX     float64 `json:"x"`
	PosY     float64 `json:"y"`
	Body     string  `json:"text"`
	Width    *int    `json:"width"`
	Height   *int    `json:"height"`
	FontSize *int    `json:"font_size"`
}

// Patch holds the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Page     *int     `json:"page"`
	PosX     *float64 `json:"x"`
	PosY     *float64 `json:"y"`
	Body     *string  `json:"text"`
	Width    *int     `json:"width"`
	Height   *int     `json:"height"`
	FontSize *int     `json:"font_size"`
}

// Apply copies the set fields onto annotation.
func (patch Patch) Apply(annotation *Annotation) {
	if patch.Page != nil {
		annotation.Page = *patch.Page
	}
	if patch.PosX != nil {
		annotation.PosX = *patch.PosX
	}
	if patch.PosY != nil {
		annotation.PosY = *patch.PosY
	}
	if patch.Body != nil {
		annotation.Body = *patch.Body
	}
	if patch.Width != nil {
		annotation.Width = *patch.Width
	}
	if patch.Height != nil {
		annotation.Height = *patch.Height
	}
	if patch.FontSize != nil {
		annotation.FontSize = *patch.FontSize
	}
}

var (
	ErrAnnotationNotFound = apperr.NotFound("Annotation")
	ErrAnnotationNotOwned = apperr.Forbidden("Annotation belongs to another user")
)

// Field names used in validation errors.
const (
	FieldBookID   = "book_id"
	FieldPage     = "page"
	FieldPosX     = "x"
	FieldPosY     = "y"
	FieldBody     = "text"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldFontSize = "font_size"
)

const maxBodyLength = 5000
