package schemadoc

import (
	"errors"

	"github.com/alnah/go-schemadoc/internal/assets"
	"github.com/alnah/go-schemadoc/internal/ontology"
	"github.com/alnah/go-schemadoc/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Errors raised by internal packages, re-exported for errors.Is checks.
	ErrHeaderRender  = pipeline.ErrHeaderRender
	ErrIntroRender   = pipeline.ErrIntroRender
	ErrInvalidPrefix = ontology.ErrInvalidPrefix
	ErrStyleNotFound = assets.ErrStyleNotFound
)
