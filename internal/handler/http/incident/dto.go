// Package incident provides the HTTP handlers for incidents, districts and
// on-demand scans.
package incident

import (
	"time"

	"lima-segura/internal/domain/entity"
)

// DTO is the JSON representation of a stored incident.
type DTO struct {
	ID          int64     `json:"id" example:"1"`
	Headline    string    `json:"headline" example:"Asaltan a cambista en Miraflores"`
	Link        string    `json:"link" example:"https://elcomercio.pe/lima/policiales/asaltan-a-cambista-noticia/"`
	Source      string    `json:"source" example:"El Comercio"`
	District    string    `json:"district" example:"MIRAFLORES"`
	Category    string    `json:"category" example:"ASALTO"`
	FirstSeenAt time.Time `json:"first_seen_at" example:"2025-03-14T20:04:05Z"`
}

func toDTO(inc entity.Incident) DTO {
	return DTO{
		ID:          inc.ID,
		Headline:    inc.Headline,
		Link:        inc.Link,
		Source:      inc.Source,
		District:    inc.District,
		Category:    inc.Category,
		FirstSeenAt: inc.FirstSeenAt.UTC(),
	}
}

func toDTOs(incs []entity.Incident) []DTO {
	out := make([]DTO, 0, len(incs))
	for _, inc := range incs {
		out = append(out, toDTO(inc))
	}
	return out
}
