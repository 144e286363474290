package service

import "github.com/AizaAsim/CampusConnect/internal/model"

// 各实体的修改权限，条件之间为或

func canManageClub(caller *model.User, club *model.Club) bool {
	return caller.IsAdmin() || club.AdminID == caller.ID
}

// canRemoveMember 在社团管理权限之外，成员可以自己退出
func canRemoveMember(caller *model.User, club *model.Club, m *model.ClubMember) bool {
	return canManageClub(caller, club) || m.UserID == caller.ID
}

func canManageEvent(caller *model.User, e *model.Event) bool {
	if caller.IsAdmin() || e.OrganizerID == caller.ID {
		return true
	}
	return e.Club != nil && e.Club.AdminID == caller.ID
}

func canManagePost(caller *model.User, p *model.Post) bool {
	return caller.IsAdmin() || p.AuthorID == caller.ID
}

func canDeleteComment(caller *model.User, c *model.Comment) bool {
	if caller.IsAdmin() || c.AuthorID == caller.ID {
		return true
	}
	return c.Post != nil && c.Post.AuthorID == caller.ID
}

// canManageAttendance 报名只能本人修改，管理员也不例外
func canManageAttendance(caller *model.User, userID uint64) bool {
	return caller.ID == userID
}
