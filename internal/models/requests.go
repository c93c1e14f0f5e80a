package models

// BulkUpdateRequest is the body of PUT /contacts/bulk.
type BulkUpdateRequest struct {
	ContactIDs []int         `json:"contact_ids" validate:"required,min=1,dive,gt=0" example:"1,2,3"`
	Updates    ContactFields `json:"updates"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=64" example:"Neighbors"`
}

// ExportArchiveResponse is returned after a CSV export was uploaded.
type ExportArchiveResponse struct {
	URL      string `json:"url"`
	Count    int    `json:"count"`
	FileName string `json:"file_name"`
}
