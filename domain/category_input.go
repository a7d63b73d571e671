package domain

// CategoryInput is the writable part of a category as received on create and
// update. A nil Image keeps the stored image on update.
type CategoryInput struct {
	CategoriaNombre string
	Descripcion     string
	Image           *ImageUpload
}

// ImageUpload is an image file attached to a create or update request.
type ImageUpload struct {
	FileName string
	Content  []byte
}
