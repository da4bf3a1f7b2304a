package service

import "Hyeyum_Board/internal/model"

// CanModify 作者本人或管理员才能修改/删除帖子；匿名用户一律不行
func CanModify(actor *model.User, post *model.Post) bool {
	if actor == nil || post == nil {
		return false
	}
	return actor.IsAdmin || actor.ID == post.AuthorID
}

func Authorize(actor *model.User, post *model.Post) error {
	if !CanModify(actor, post) {
		return ErrForbidden
	}
	return nil
}
