package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/story-arena/pkg/actor"
	"github.com/jwebster45206/story-arena/pkg/savefile"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.txt>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SaveValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Save file is valid!")
}

// SaveValidator checks a save record for values the game would never write.
type SaveValidator struct {
	errors []string
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if ext := filepath.Ext(filename); ext != ".txt" {
		return fmt.Errorf("save file must have .txt extension: %s", filepath.Base(filename))
	}

	rec, err := savefile.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	v.errors = nil
	v.validateRecord(rec)
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	c, err := actor.FromRecord(rec, nil)
	if err != nil {
		return fmt.Errorf("record cannot be restored: %w", err)
	}
	sheet, err := c.Sheet()
	if err != nil {
		return fmt.Errorf("character sheet cannot be built: %w", err)
	}

	fmt.Println(c)
	fmt.Printf("Sheet: HP %d/%d, AC %d, %d items\n", sheet.HP(), sheet.MaxHP(), sheet.AC(), len(rec.Items))
	return nil
}

func (v *SaveValidator) validateRecord(rec *savefile.Record) {
	if strings.TrimSpace(rec.Name) == "" {
		v.addError("name is empty")
	}
	if rec.HP > actor.MaxHP {
		v.addError(fmt.Sprintf("hp %d is above the maximum of %d", rec.HP, actor.MaxHP))
	}
	if rec.Attack < 0 {
		v.addError(fmt.Sprintf("attack %d is negative", rec.Attack))
	}
	if rec.Defense < 0 {
		v.addError(fmt.Sprintf("defense %d is negative", rec.Defense))
	}
	if rec.Level < 1 {
		v.addError(fmt.Sprintf("level %d is below 1", rec.Level))
	}
	if rec.Experience < 0 || rec.Experience >= actor.LevelUpXP {
		v.addError(fmt.Sprintf("experience %d is outside [0, %d)", rec.Experience, actor.LevelUpXP))
	}
	for i, item := range rec.Items {
		if strings.TrimSpace(item) == "" {
			v.addError(fmt.Sprintf("item %d is blank", i+1))
		}
	}
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
