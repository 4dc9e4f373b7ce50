package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/samber/lo"
)

// PostEngagement owns posts, their like sets, comment threads and repost
// lineage.
type PostEngagement struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	notifier Notifier
	logger   *slog.Logger
}

// NewPostEngagement returns a new PostEngagement.
func NewPostEngagement(posts repositories.PostRepository, comments repositories.CommentRepository, notifier Notifier, logger *slog.Logger) *PostEngagement {
	return &PostEngagement{posts: posts, comments: comments, notifier: notifier, logger: logger}
}

// NewPostInput carries the content of a new post. Media URLs are produced by
// the upload collaborator beforehand.
type NewPostInput struct {
	Text      string
	ImageURL  string
	VideoURL  string
	ImageURLs []string
	VideoURLs []string
}

// Create stores a new original post owned by author.
func (p *PostEngagement) Create(ctx context.Context, author models.Author, in NewPostInput) (post *models.Post, err error) {
	defer observe(componentPosts, "create", &err)

	post = &models.Post{
		Author:    author,
		Text:      in.Text,
		ImageURL:  in.ImageURL,
		VideoURL:  in.VideoURL,
		ImageURLs: in.ImageURLs,
		VideoURLs: in.VideoURLs,
	}
	if err := p.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}
	return post, nil
}

// Get returns a post with its comments resolved newest first.
func (p *PostEngagement) Get(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := p.comments.GetCommentsByIDs(ctx, post.CommentIDs)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// UpdateText edits a post's text. Quote-repost snapshots of it are unaffected.
func (p *PostEngagement) UpdateText(ctx context.Context, postID, text string) (post *models.Post, err error) {
	defer observe(componentPosts, "update", &err)
	return p.posts.UpdateText(ctx, postID, text)
}

// Like adds the user to the post's like set and returns the resulting set.
// Liking twice is a no-op; the author is notified only when the set grew
// and the liker is someone else.
func (p *PostEngagement) Like(ctx context.Context, postID string, liker models.Identity) (likes []string, err error) {
	defer observe(componentPosts, "like", &err)

	post, added, err := p.posts.AddLike(ctx, postID, liker.UserID)
	if err != nil {
		return nil, err
	}
	if added && post.Author.UserID != liker.UserID {
		p.notifier.NotifyBestEffort(ctx, post.Author.UserID, liker.Party(), models.LikeEvent{PostID: postID})
	}
	return post.Likes, nil
}

// Unlike removes the user from the post's like set and returns the
// resulting set. Unliking a post the user never liked is a no-op.
func (p *PostEngagement) Unlike(ctx context.Context, postID, userID string) (likes []string, err error) {
	defer observe(componentPosts, "unlike", &err)

	post, err := p.posts.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Likes returns the post's like set and whether viewerID is in it.
func (p *PostEngagement) Likes(ctx context.Context, postID, viewerID string) ([]string, bool, error) {
	post, err := p.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	return post.Likes, post.HasLike(viewerID), nil
}

// Comment stores a comment record and prepends its reference to the post.
// If the reference cannot be attached the record is removed again.
func (p *PostEngagement) Comment(ctx context.Context, postID string, commenter models.Identity, text string) (comment *models.Comment, err error) {
	defer observe(componentPosts, "comment", &err)

	post, err := p.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment = &models.Comment{
		PostID:    post.ID.Hex(),
		UserID:    commenter.UserID,
		UserImage: commenter.ImageURL,
		FirstName: commenter.FirstName,
		LastName:  commenter.LastName,
		Text:      text,
	}
	if err := p.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := p.posts.PushComment(ctx, comment.PostID, comment.ID); err != nil {
		if delErr := p.comments.DeleteComment(ctx, comment.ID); delErr != nil {
			p.logger.ErrorContext(ctx, "orphaned comment",
				slog.Uint64("comment_id", uint64(comment.ID)),
				slog.String("post_id", comment.PostID),
				slog.Any("error", delErr),
			)
		}
		return nil, err
	}

	if post.Author.UserID != commenter.UserID {
		p.notifier.NotifyBestEffort(ctx, post.Author.UserID, commenter.Party(), models.CommentEvent{})
	}
	return comment, nil
}

// Comments returns every comment stored for the post, newest first.
func (p *PostEngagement) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	post, err := p.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return p.comments.GetCommentsByPostID(ctx, post.ID.Hex())
}

// RepostDirect creates a post owned by actor that copies the original's text
// and media verbatim. No snapshot is embedded.
func (p *PostEngagement) RepostDirect(ctx context.Context, originalPostID string, actor models.Author) (post *models.Post, err error) {
	defer observe(componentPosts, "repost_direct", &err)

	original, err := p.posts.GetPostByID(ctx, originalPostID)
	if err != nil {
		return nil, err
	}

	originalAuthor := original.Author
	post = &models.Post{
		Author:         actor,
		Text:           original.Text,
		ImageURL:       original.ImageURL,
		VideoURL:       original.VideoURL,
		ImageURLs:      append([]string(nil), original.ImageURLs...),
		VideoURLs:      append([]string(nil), original.VideoURLs...),
		IsRepost:       true,
		OriginalPostID: originalPostID,
		OriginalAuthor: &originalAuthor,
	}
	if err := p.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}
	return post, nil
}

// RepostWithThoughts creates a quote-repost whose text is thoughts and which
// embeds a frozen snapshot of the original as it is now.
func (p *PostEngagement) RepostWithThoughts(ctx context.Context, originalPostID string, actor models.Author, thoughts string) (post *models.Post, err error) {
	defer observe(componentPosts, "repost_with_thoughts", &err)

	original, err := p.posts.GetPostByID(ctx, originalPostID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		Author:         actor,
		Text:           thoughts,
		IsRepost:       true,
		OriginalPostID: originalPostID,
		OriginalPost:   original.Snapshot(),
	}
	if err := p.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}
	return post, nil
}

// Delete removes the post only. Comments and reposts referencing it are kept.
func (p *PostEngagement) Delete(ctx context.Context, postID string) (err error) {
	defer observe(componentPosts, "delete", &err)
	return p.posts.DeletePost(ctx, postID)
}

// ListFeed returns every post newest first with its comment references
// resolved in order, using one comment query for the whole page.
func (p *PostEngagement) ListFeed(ctx context.Context) ([]models.Post, error) {
	posts, err := p.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	ids := lo.FlatMap(posts, func(post models.Post, _ int) []uint { return post.CommentIDs })
	comments, err := p.comments.GetCommentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(comments, func(c models.Comment) uint { return c.ID })

	for i := range posts {
		posts[i].Comments = lo.FilterMap(posts[i].CommentIDs, func(id uint, _ int) (models.Comment, bool) {
			c, ok := byID[id]
			return c, ok
		})
	}
	return posts, nil
}
