// Package dto data transfer objects of the blog
package dto

// NewPostArgs fields submitted by the new post form
type NewPostArgs struct {
	Title   string
	Summary string
	Content string
}
