package database

import (
	"gorm.io/gorm"
)

type Database struct {
	userRepo     *UserRepo
	storeRepo    *StoreRepo
	postRepo     *PostRepo
	reactionRepo *ReactionRepo
	tagRepo      *TagRepo
	followRepo   *FollowRepo
	commentRepo  *CommentRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		storeRepo:    NewStoreRepo(db),
		postRepo:     NewPostRepo(db),
		reactionRepo: NewReactionRepo(db),
		tagRepo:      NewTagRepo(db),
		followRepo:   NewFollowRepo(db),
		commentRepo:  NewCommentRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) StoreRepo() *StoreRepo {
	return d.storeRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) ReactionRepo() *ReactionRepo {
	return d.reactionRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) FollowRepo() *FollowRepo {
	return d.followRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}
