// Package publish copies the freshest dashboard into the published-site
// directory and hands it to git for the static-site host to pick up.
package publish

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/nao1215/markdown"
)

// Publisher syncs the dashboard into the site directory.
type Publisher struct {
	DashboardDir string
	SiteDir      string
	GitPush      bool
	Remote       string
	Branch       string
	Now          func() time.Time
}

func New(dashboardDir, siteDir string) *Publisher {
	return &Publisher{
		DashboardDir: dashboardDir,
		SiteDir:      siteDir,
		Remote:       "origin",
		Branch:       "main",
		Now:          time.Now,
	}
}

// Publish copies index.html into the site dir along with a dated copy and
// a README, then commits and pushes when git_push is enabled. Unchanged
// content is a no-op, not an error; it reports false and skips git.
func (p *Publisher) Publish() (bool, error) {
	src := filepath.Join(p.DashboardDir, "index.html")
	content, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read dashboard: %w", err)
	}

	dst := filepath.Join(p.SiteDir, "index.html")
	if prev, err := os.ReadFile(dst); err == nil && bytes.Equal(prev, content) {
		log.Println("[INFO] dashboard unchanged, nothing to publish")
		return false, nil
	}

	if err := os.MkdirAll(p.SiteDir, 0755); err != nil {
		return false, fmt.Errorf("create site dir: %w", err)
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return false, fmt.Errorf("write index.html: %w", err)
	}

	dated := filepath.Join(p.SiteDir, fmt.Sprintf("classement_brvm_%s.html", p.Now().Format("20060102")))
	if err := os.WriteFile(dated, content, 0644); err != nil {
		return false, fmt.Errorf("write dated copy: %w", err)
	}

	if err := p.writeReadme(); err != nil {
		return false, fmt.Errorf("write readme: %w", err)
	}
	log.Printf("[INFO] dashboard published to %s", dst)

	if p.GitPush {
		if err := p.gitCommitPush(); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (p *Publisher) writeReadme() error {
	f, err := os.Create(filepath.Join(p.SiteDir, "README.md"))
	if err != nil {
		return err
	}
	defer f.Close()

	updated := p.Now().Format("02/01/2006")
	return markdown.NewMarkdown(f).
		H1("Tableau de bord des valeurs de la BRVM").
		PlainText("Ce dossier contient les fichiers HTML du tableau de bord des valeurs mobilières "+
			"cotées à la Bourse Régionale des Valeurs Mobilières (BRVM).").
		BulletList(
			fmt.Sprintf("**index.html** : tableau de bord actuel, mis à jour le %s", updated),
			"des copies datées conservent l'historique des analyses",
		).
		PlainText("Ce tableau de bord est généré automatiquement à chaque exécution du pipeline d'analyse.").
		Build()
}

// gitCommitPush signals the version-control collaborator. The site dir
// must already be a checkout of the published branch.
func (p *Publisher) gitCommitPush() error {
	msg := fmt.Sprintf("Mise à jour du tableau de bord %s", p.Now().Format("2006-01-02"))
	steps := [][]string{
		{"add", "-A"},
		{"commit", "-m", msg},
		{"push", p.Remote, p.Branch},
	}
	for _, args := range steps {
		cmd := exec.Command("git", args...)
		cmd.Dir = p.SiteDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git %s: %w: %s", args[0], err, bytes.TrimSpace(out))
		}
	}
	log.Printf("[INFO] site pushed to %s/%s", p.Remote, p.Branch)
	return nil
}
