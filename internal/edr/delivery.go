package edr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Deliver перемещает файлы продуктов в выходную директорию.
//
// subdir — необязательная поддиректория внутри outputDir (например, имя
// прохода). Возвращает пути доставленных файлов в порядке входного списка.
// Ошибка доставки одного файла не прерывает доставку остальных;
// накопленные ошибки возвращаются через errors.Join.
func Deliver(files []string, outputDir, subdir string) ([]string, error) {
	dest := outputDir
	if subdir != "" {
		dest = filepath.Join(outputDir, subdir)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dest, err)
	}

	var delivered []string
	var errs []error

	for _, file := range files {
		target := filepath.Join(dest, filepath.Base(file))
		if err := moveFile(file, target); err != nil {
			errs = append(errs, fmt.Errorf("deliver %s: %w", filepath.Base(file), err))
			continue
		}
		delivered = append(delivered, target)
	}

	return delivered, errors.Join(errs...)
}

// Cleanup удаляет рабочую директорию job целиком.
func Cleanup(workDir string) error {
	if workDir == "" {
		return nil
	}
	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("remove workdir %s: %w", workDir, err)
	}
	return nil
}

// moveFile перемещает файл через rename, с fallback на copy+remove
// когда источник и назначение на разных файловых системах.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
