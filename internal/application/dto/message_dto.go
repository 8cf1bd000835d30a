package dto

import "github.com/jhoicas/efactura-api/internal/infrastructure/anaf"

// MessageResponse is one SPV message entry.
type MessageResponse struct {
	ID           string `json:"id"`
	CreationDate string `json:"creation_date"`
	CIF          string `json:"cif"`
	UploadIndex  string `json:"upload_index"`
	Details      string `json:"details"`
	Type         string `json:"type"`
}

// MessageListResponse is a flat message listing.
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// MessagePageResponse is one page of the paginated listing.
type MessagePageResponse struct {
	Messages       []MessageResponse `json:"messages"`
	TotalRecords   int64             `json:"total_records"`
	TotalPages     int64             `json:"total_pages"`
	RecordsPerPage int64             `json:"records_per_page"`
	CurrentPage    int64             `json:"current_page"`
}

// FromMessages maps the client entries to the API shape.
func FromMessages(msgs []anaf.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageResponse{
			ID:           m.ID,
			CreationDate: m.CreationDate,
			CIF:          m.CIF,
			UploadIndex:  m.UploadIndex,
			Details:      m.Details,
			Type:         m.Type,
		}
	}
	return out
}
