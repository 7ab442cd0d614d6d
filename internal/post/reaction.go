package post

import "github.com/fp-foodie-finder/server/internal/model"

// State is a user's standing on one post.
type State int

const (
	Neutral State = iota
	Liked
	Disliked
)

type Action int

const (
	Like Action = iota
	Unlike
	Dislike
	Undislike
)

func (a Action) String() string {
	switch a {
	case Like:
		return "like"
	case Unlike:
		return "unlike"
	case Dislike:
		return "dislike"
	case Undislike:
		return "undislike"
	}
	return "unknown"
}

// Next is the like/dislike transition. A user is in at most one of the two
// sets, and undoing a reaction the user does not hold changes nothing.
func Next(s State, a Action) State {
	switch a {
	case Like:
		return Liked
	case Dislike:
		return Disliked
	case Unlike:
		if s == Liked {
			return Neutral
		}
	case Undislike:
		if s == Disliked {
			return Neutral
		}
	}
	return s
}

func stateOf(k model.ReactionKind) State {
	switch k {
	case model.ReactionLike:
		return Liked
	case model.ReactionDislike:
		return Disliked
	}
	return Neutral
}

func kindOf(s State) model.ReactionKind {
	if s == Disliked {
		return model.ReactionDislike
	}
	return model.ReactionLike
}
