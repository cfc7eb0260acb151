package validation

import (
	"crypto/subtle"

	"github.com/listenupapp/mediashelf/internal/domain"
	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
)

// Messages returned for rejected payloads.
const (
	MsgMissingType        = "missing type"
	MsgMissingTable       = "missing table"
	MsgMissingTagList     = "missing tagList"
	MsgMissingInsertData  = "missing insert data"
	MsgMissingUpdateData  = "missing update data"
	MsgMissingQuery       = "missing query"
	MsgMissingCountColumn = "missing countColumn"
	MsgMissingKey         = "missing key"
	MsgUnauthorized       = "unauthorized"
)

// PayloadValidator applies the ordered payload checks and the shared-secret
// check. The first failing check is returned; later checks are not run.
type PayloadValidator struct {
	shape   *Validator
	authKey []byte
}

// NewPayloadValidator creates a validator that accepts requests carrying authKey.
func NewPayloadValidator(authKey string) *PayloadValidator {
	return &PayloadValidator{
		shape:   New(),
		authKey: []byte(authKey),
	}
}

// Validate returns nil when req may be dispatched, otherwise a
// VALIDATION or UNAUTHORIZED domain error tagged with the request's table.
func (p *PayloadValidator) Validate(req *domain.ActionRequest) error {
	kind := req.Kind()

	switch {
	case kind == domain.ActionNone:
		return domainerrors.Validation(MsgMissingType)
	case req.Table == "":
		return domainerrors.Validation(MsgMissingTable)
	case kind == domain.ActionListTags && req.TagList == "":
		return p.reject(req, MsgMissingTagList)
	case kind == domain.ActionInsert && !p.complete(req):
		return p.reject(req, MsgMissingInsertData)
	case kind == domain.ActionUpdate && !p.complete(req):
		return p.reject(req, MsgMissingUpdateData)
	case kind == domain.ActionSearch && req.Query == "":
		return p.reject(req, MsgMissingQuery)
	case kind == domain.ActionCount && req.CountColumn == "":
		return p.reject(req, MsgMissingCountColumn)
	case req.Key == "":
		return domainerrors.Unauthorized(MsgMissingKey).WithTable(req.Table)
	case subtle.ConstantTimeCompare([]byte(req.Key), p.authKey) != 1:
		return domainerrors.Unauthorized(MsgUnauthorized).WithTable(req.Table)
	default:
		return nil
	}
}

func (p *PayloadValidator) reject(req *domain.ActionRequest, msg string) error {
	return domainerrors.Validation(msg).WithTable(req.Table)
}

// complete reports whether req carries a data object with every non-id
// field of its table's variant present.
func (p *PayloadValidator) complete(req *domain.ActionRequest) bool {
	if !req.HasData() {
		return false
	}
	item, err := req.MediaItem()
	if err != nil {
		return false
	}
	missing, err := p.shape.MissingFields(item)
	return err == nil && len(missing) == 0
}
