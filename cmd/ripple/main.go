package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/app"
	"github.com/vedran77/ripple/internal/config"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/feed"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/profile"
	"github.com/vedran77/ripple/internal/session"
	"github.com/vedran77/ripple/internal/store"
	"github.com/vedran77/ripple/internal/upload"
)

func main() {
	log.SetFlags(0)

	// Last-resort recovery: report and ask for a restart instead of dumping
	// a stack on the user.
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("Something went wrong: %v\nPlease restart ripple.", r)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	st, err := store.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("opening state store: %v", err)
	}
	defer st.Close()

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, cfg.RequestsPerSecond)
	notifier := notify.Log{}
	sess := session.New(st, client, notifier, cfg.AuthCheckTimeout)

	ctx := context.Background()
	sess.Init(ctx)

	if err := run(ctx, os.Args[1], os.Args[2:], client, sess, notifier); err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ripple <command> [flags]

  login           -email -password
  register        -username -email -password
  logout
  whoami
  feed
  post            -content [-image path] [-tags a,b]
  edit            -post id -content [-image path] [-tags a,b]
  delete          -post id [-yes]
  like            -post id
  comments        -post id
  comment         -post id -content
  comment-like    -post id -comment id
  comment-delete  -post id -comment id [-yes]
  upload          -file path
  profile         [-user name] [-tab posts|followers|following]
  follow          -user name
  unfollow        -user name
  edit-profile    [-username] [-bio] [-picture url]`)
}

func run(ctx context.Context, cmd string, args []string, client *api.Client, sess *session.Session, notifier notify.Notifier) error {
	switch cmd {
	case "login":
		return cmdLogin(ctx, args, sess)
	case "register":
		return cmdRegister(ctx, args, sess)
	case "logout":
		sess.Logout()
		return nil
	case "whoami":
		return cmdWhoami(sess)
	case "feed":
		return cmdFeed(ctx, args, client, sess, notifier)
	case "post":
		return cmdPost(ctx, args, client, sess, notifier)
	case "edit":
		return cmdEdit(ctx, args, client, sess, notifier)
	case "delete":
		return cmdDelete(ctx, args, client, sess, notifier)
	case "like":
		return cmdLike(ctx, args, client, sess, notifier)
	case "comments":
		return cmdComments(ctx, args, client, sess, notifier)
	case "comment":
		return cmdComment(ctx, args, client, sess, notifier)
	case "comment-like":
		return cmdCommentLike(ctx, args, client, sess, notifier)
	case "comment-delete":
		return cmdCommentDelete(ctx, args, client, sess, notifier)
	case "upload":
		return cmdUpload(ctx, args, client, sess)
	case "profile":
		return cmdProfile(ctx, args, client, sess, notifier)
	case "follow":
		return cmdFollow(ctx, args, client, sess, notifier, true)
	case "unfollow":
		return cmdFollow(ctx, args, client, sess, notifier, false)
	case "edit-profile":
		return cmdEditProfile(ctx, args, client, sess, notifier)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireAuth applies the protected-route policy before an authed command.
func requireAuth(sess *session.Session) error {
	v := app.Protected(sess)
	if v.Decision == app.Render {
		return nil
	}
	log.Printf("You are not logged in. Run `ripple login` first.")
	return fmt.Errorf("redirected to %s", v.Target)
}

func cmdLogin(ctx context.Context, args []string, sess *session.Session) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if v := app.Public(sess); v.Decision == app.Redirect {
		log.Printf("Already logged in.")
		return nil
	}

	res := sess.Login(ctx, *email, *password)
	if !res.Success {
		if res.Fields.HasErrors() {
			printFieldErrors(res.Fields)
		}
		return fmt.Errorf("login: %s", res.Message)
	}
	return nil
}

func cmdRegister(ctx context.Context, args []string, sess *session.Session) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "desired username")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if v := app.Public(sess); v.Decision == app.Redirect {
		log.Printf("Already logged in.")
		return nil
	}

	res := sess.Register(ctx, *username, *email, *password)
	if !res.Success {
		if res.Fields.HasErrors() {
			printFieldErrors(res.Fields)
		}
		return fmt.Errorf("register: %s", res.Message)
	}
	return nil
}

func cmdWhoami(sess *session.Session) error {
	if err := requireAuth(sess); err != nil {
		return err
	}
	u := sess.User()
	fmt.Printf("%s (%s)\n", u.Username, u.ID)
	if u.Bio != "" {
		fmt.Println(u.Bio)
	}
	return nil
}

func cmdFeed(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := feed.NewController(client, sess, n)
	if err := ctrl.Refresh(ctx); err != nil {
		msg, _ := ctrl.Err()
		log.Printf("%s (run `ripple feed` again to retry)", msg)
		return err
	}

	posts := ctrl.Posts()
	if len(posts) == 0 {
		fmt.Println("No posts yet. Be the first to create a post!")
		return nil
	}
	for _, p := range posts {
		printPost(&p)
	}
	return nil
}

func cmdPost(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	content := fs.String("content", "", "post content")
	image := fs.String("image", "", "path to an image to attach")
	tags := fs.String("tags", "", "comma-separated tags")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := feed.NewController(client, sess, n)
	draft := api.PostDraft{Content: *content, Tags: splitTags(*tags)}

	if *image != "" {
		// A failed upload surfaces its error but does not block the post.
		_ = ctrl.AttachImage(ctx, &draft, *image)
	}

	return ctrl.Create(ctx, draft)
}

func cmdEdit(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	content := fs.String("content", "", "new content")
	image := fs.String("image", "", "path to a replacement image")
	tags := fs.String("tags", "", "comma-separated tags")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := feed.NewController(client, sess, n)
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	draft, ok := ctrl.BeginEdit(*postID)
	if !ok {
		return fmt.Errorf("post %s not found", *postID)
	}
	if *content != "" {
		draft.Content = *content
	}
	if *tags != "" {
		draft.Tags = splitTags(*tags)
	}
	if *image != "" {
		_ = ctrl.AttachImage(ctx, &draft, *image)
	}

	return ctrl.Update(ctx, *postID, draft)
}

func cmdDelete(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	yes := fs.Bool("yes", false, "confirm the deletion")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := feed.NewController(client, sess, n)
	ctrl.RequestDelete(*postID)

	if !*yes {
		ctrl.CancelDelete()
		fmt.Println("Are you sure you want to delete this post? Re-run with -yes to confirm.")
		return nil
	}
	return ctrl.ConfirmDelete(ctx)
}

func cmdLike(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	card, err := loadCard(ctx, client, sess, n, *postID)
	if err != nil {
		return err
	}
	if err := card.ToggleLike(ctx); err != nil {
		return err
	}
	fmt.Printf("liked=%v likes=%d\n", card.Liked(), card.LikeCount())
	return nil
}

func cmdComments(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("comments", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	card, err := loadCard(ctx, client, sess, n, *postID)
	if err != nil {
		return err
	}
	card.ToggleComments()

	post := card.Post()
	if len(post.Comments) == 0 {
		fmt.Println("No comments yet. Be the first to comment!")
		return nil
	}
	for _, c := range post.Comments {
		fmt.Printf("%s  %s: %s (%d likes)\n", c.ID, c.Author.Username, c.Content, c.LikeCount())
	}
	return nil
}

func cmdComment(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	content := fs.String("content", "", "comment text")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	box := feed.NewCommentBox(client, sess, n, *postID, nil, nil)
	return box.Submit(ctx, *content)
}

func cmdCommentLike(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("comment-like", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	commentID := fs.String("comment", "", "comment id")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	card, err := loadCard(ctx, client, sess, n, *postID)
	if err != nil {
		return err
	}
	box := feed.NewCommentBox(client, sess, n, *postID, card.Post().Comments, nil)
	if err := box.ToggleLike(ctx, *commentID); err != nil {
		return err
	}
	for _, c := range box.Comments() {
		if c.ID == *commentID {
			fmt.Printf("likes=%d\n", c.LikeCount())
		}
	}
	return nil
}

func cmdCommentDelete(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("comment-delete", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	commentID := fs.String("comment", "", "comment id")
	yes := fs.Bool("yes", false, "confirm the deletion")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	card, err := loadCard(ctx, client, sess, n, *postID)
	if err != nil {
		return err
	}
	box := feed.NewCommentBox(client, sess, n, *postID, card.Post().Comments, nil)

	if !box.RequestDelete(*commentID) {
		return fmt.Errorf("comment %s not found or not yours", *commentID)
	}
	if !*yes {
		box.CancelDelete()
		fmt.Println("Are you sure you want to delete this comment? Re-run with -yes to confirm.")
		return nil
	}
	return box.ConfirmDelete(ctx)
}

func cmdUpload(ctx context.Context, args []string, client *api.Client, sess *session.Session) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "path to an image")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	url, err := upload.SendFile(ctx, client, *file)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

func cmdProfile(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	username := fs.String("user", "", "profile username (defaults to yours)")
	tab := fs.String("tab", "posts", "posts, followers, or following")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := profile.NewController(client, sess, n, *username)
	if err := ctrl.Load(ctx); err != nil {
		if ctrl.NotFound() {
			fmt.Println("User not found. The profile you're looking for doesn't exist.")
			return nil
		}
		return err
	}

	u := ctrl.User()
	fmt.Printf("%s", u.Username)
	if ctrl.IsSelf() {
		fmt.Printf(" (you)")
	} else if ctrl.IsFollowing() {
		fmt.Printf(" (following)")
	}
	fmt.Println()
	if u.Bio != "" {
		fmt.Println(u.Bio)
	}
	fmt.Printf("%d posts · %d followers · %d following · joined %s\n",
		len(ctrl.Posts()), len(u.Followers), len(u.Following), u.CreatedAt.Format("January 2006"))

	if !ctrl.SetTab(profile.Tab(*tab)) {
		// Followers/following tabs only exist on other users' profiles.
		ctrl.SetTab(profile.TabPosts)
	}

	switch ctrl.Tab() {
	case profile.TabFollowers:
		for _, f := range u.Followers {
			fmt.Println(f.Username)
		}
	case profile.TabFollowing:
		for _, f := range u.Following {
			fmt.Println(f.Username)
		}
	default:
		for _, p := range ctrl.Posts() {
			printPost(&p)
		}
	}
	return nil
}

func cmdFollow(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier, follow bool) error {
	fs := flag.NewFlagSet("follow", flag.ExitOnError)
	username := fs.String("user", "", "profile username")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := profile.NewController(client, sess, n, *username)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if ctrl.IsSelf() {
		return fmt.Errorf("cannot follow yourself")
	}
	if ctrl.IsFollowing() == follow {
		fmt.Printf("Already %s.\n", map[bool]string{true: "following", false: "not following"}[follow])
		return nil
	}
	if err := ctrl.ToggleFollow(ctx); err != nil {
		return err
	}

	u := ctrl.User()
	fmt.Printf("following=%v followers=%d\n", ctrl.IsFollowing(), len(u.Followers))
	return nil
}

func cmdEditProfile(ctx context.Context, args []string, client *api.Client, sess *session.Session, n notify.Notifier) error {
	fs := flag.NewFlagSet("edit-profile", flag.ExitOnError)
	username := fs.String("username", "", "new username")
	bio := fs.String("bio", "", "new bio")
	picture := fs.String("picture", "", "new profile picture URL")
	fs.Parse(args)

	if err := requireAuth(sess); err != nil {
		return err
	}

	ctrl := profile.NewController(client, sess, n, "")
	if err := ctrl.Load(ctx); err != nil {
		return err
	}

	form := ctrl.Form()
	if *username != "" {
		form.Username = *username
	}
	if *bio != "" {
		form.Bio = *bio
	}
	if *picture != "" {
		form.ProfilePicture = *picture
	}

	nav, err := ctrl.UpdateProfile(ctx, form)
	if err != nil {
		printFieldErrors(ctrl.FieldErrors())
		return err
	}
	if nav != "" {
		fmt.Printf("Profile moved to %s\n", nav)
	}
	return nil
}

func loadCard(ctx context.Context, client *api.Client, sess *session.Session, n notify.Notifier, postID string) (*feed.Card, error) {
	ctrl := feed.NewController(client, sess, n)
	if err := ctrl.Refresh(ctx); err != nil {
		return nil, err
	}
	for _, p := range ctrl.Posts() {
		if p.ID == postID {
			return feed.NewCard(client, sess, n, p, feed.CardHooks{
				OnUpdate: ctrl.ReplacePost,
				OnDelete: ctrl.Delete,
			}), nil
		}
	}
	return nil, fmt.Errorf("post %s not found", postID)
}

func printPost(p *domain.Post) {
	fmt.Printf("%s  %s · %s\n", p.ID, p.Author.Username, p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  %s\n", p.Content)
	if p.Image != "" {
		fmt.Printf("  image: %s\n", p.Image)
	}
	if len(p.Tags) > 0 {
		fmt.Printf("  #%s\n", strings.Join(p.Tags, " #"))
	}
	fmt.Printf("  %d likes · %d comments\n", p.LikeCount(), len(p.Comments))
}

func printFieldErrors(errs map[string]string) {
	for field, msg := range errs {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
