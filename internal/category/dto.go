package category

type CategoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Color string `json:"cor"`
	Icon  string `json:"icone"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
