package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/serpstrategist/site/internal/config"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type seedPost struct {
	title      string
	excerpt    string
	content    string
	status     string
	keywords   []string
	categories []string
	tags       []string
}

var (
	seedCategories = map[string]string{
		"Guides":  "Step-by-step walkthroughs",
		"Product": "Release notes and roadmap updates",
	}
	seedTags = []string{"Rank Tracking", "SERP Features", "Local SEO", "Reporting"}

	seedPosts = []seedPost{
		{
			title:      "Ten SERP Features Worth Tracking",
			excerpt:    "Featured snippets are only the beginning.",
			content:    "## Why features matter\n\nA ranking is more than a position.\n\n- Featured snippets\n- People also ask\n- Local packs",
			status:     db.PostStatusPublished,
			keywords:   []string{"serp features", "featured snippets"},
			categories: []string{"Guides"},
			tags:       []string{"SERP Features", "Rank Tracking"},
		},
		{
			title:      "Local Rankings Without the Guesswork",
			excerpt:    "Track map pack positions by city.",
			content:    "Local results change block by block. Track them where your customers search.",
			status:     db.PostStatusPublished,
			keywords:   []string{"local seo"},
			categories: []string{"Guides"},
			tags:       []string{"Local SEO"},
		},
		{
			title:      "Scheduled Reports Are Coming",
			excerpt:    "Weekly PDF summaries for every project.",
			content:    "We are building scheduled reports. Join the waitlist to get early access.",
			status:     db.PostStatusDraft,
			categories: []string{"Product"},
			tags:       []string{"Reporting"},
		},
	}
)

// newSeedCmd 生成演示数据：管理员、分类、标签与文章。已有文章时跳过文章部分。
func newSeedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo categories, tags and posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, cfg, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			return seed(cmd.Context(), gdb, cfg, cmd.OutOrStdout())
		},
	}
}

func seed(ctx context.Context, gdb *gorm.DB, cfg config.AppConfig, out io.Writer) error {
	if err := db.EnsureAdmin(gdb, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	categoryIDs, err := seedCategoryIDs(ctx, service.NewCategoryService(gdb))
	if err != nil {
		return err
	}
	tagIDs, err := seedTagIDs(ctx, service.NewTagService(gdb))
	if err != nil {
		return err
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&db.BlogPost{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Fprintln(out, "posts already exist, skipping")
		return nil
	}

	posts := service.NewPostService(gdb)
	for _, p := range seedPosts {
		input := service.PostInput{
			Title:   p.title,
			Content: p.content,
			Excerpt: p.excerpt,
			Status:  p.status,
			Author:  service.AuthorInput{Name: cfg.SiteName},
			SEO:     service.SEOInput{Keywords: p.keywords},
		}
		for _, name := range p.categories {
			input.CategoryIDs = append(input.CategoryIDs, categoryIDs[name])
		}
		for _, name := range p.tags {
			input.TagIDs = append(input.TagIDs, tagIDs[name])
		}
		post, err := posts.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.title, err)
		}
		fmt.Fprintf(out, "created %s post %s (%s)\n", post.Status, post.Slug, post.ID)
	}
	return nil
}

func seedCategoryIDs(ctx context.Context, svc *service.CategoryService) (map[string]string, error) {
	for name, description := range seedCategories {
		if _, err := svc.Create(ctx, name, description); err != nil && !errors.Is(err, service.ErrCategoryExists) {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	categories, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(categories))
	for _, category := range categories {
		ids[category.Name] = category.ID
	}
	return ids, nil
}

func seedTagIDs(ctx context.Context, svc *service.TagService) (map[string]string, error) {
	for _, name := range seedTags {
		if _, err := svc.Create(ctx, name); err != nil && !errors.Is(err, service.ErrTagExists) {
			return nil, fmt.Errorf("seed tag %q: %w", name, err)
		}
	}
	tags, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(tags))
	for _, tag := range tags {
		ids[tag.Name] = tag.ID
	}
	return ids, nil
}
