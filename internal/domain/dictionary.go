package domain

// DictionaryBlock is one configuration block pulled out of a model reply.
// Name comes from the block's "object <name>;" declaration and becomes the
// file name on disk.
type DictionaryBlock struct {
	Name    string
	Content string
}
