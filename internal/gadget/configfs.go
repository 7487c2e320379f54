package gadget

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultConfigfsRoot is the standard gadget configfs mount used by the
// platform init scripts.
const DefaultConfigfsRoot = "/config/usb_gadget/g1"

// Configfs implements Ops over the kernel configfs gadget tree. Function
// links are symlinks from functions/<endpoint> into configs/b.1, named by
// slot so the host's interface numbering follows link order.
type Configfs struct {
	root string
}

func NewConfigfs(root string) *Configfs {
	if root == "" {
		root = DefaultConfigfsRoot
	}
	return &Configfs{root: root}
}

func (c *Configfs) attr(name string) string  { return filepath.Join(c.root, name) }
func (c *Configfs) configDir() string        { return filepath.Join(c.root, "configs", "b.1") }
func (c *Configfs) funcDir(ep string) string { return filepath.Join(c.root, "functions", ep) }

func (c *Configfs) writeAttr(name, value string) error {
	if err := os.WriteFile(c.attr(name), []byte(value), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrDeviceIO, name, err)
	}
	return nil
}

func (c *Configfs) SetVidPid(vid, pid string) error {
	if err := c.writeAttr("idVendor", vid); err != nil {
		return err
	}
	return c.writeAttr("idProduct", pid)
}

func (c *Configfs) LinkFunction(endpoint string, slot int) error {
	link := filepath.Join(c.configDir(), "function"+strconv.Itoa(slot))
	if err := os.Symlink(c.funcDir(endpoint), link); err != nil {
		return fmt.Errorf("%w: link %s at slot %d: %v", ErrDeviceIO, endpoint, slot, err)
	}
	return nil
}

func (c *Configfs) UnlinkFunctions() error {
	entries, err := os.ReadDir(c.configDir())
	if err != nil {
		return fmt.Errorf("%w: read config dir: %v", ErrDeviceIO, err)
	}
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if err := os.Remove(filepath.Join(c.configDir(), entry.Name())); err != nil {
			return fmt.Errorf("%w: unlink %s: %v", ErrDeviceIO, entry.Name(), err)
		}
	}
	return nil
}

func (c *Configfs) WritePullup(controller string) error {
	return c.writeAttr("UDC", controller)
}

func (c *Configfs) ClearPullup() error {
	return c.writeAttr("UDC", "none")
}

func (c *Configfs) ResetGadget() error {
	if err := c.ClearPullup(); err != nil {
		return fmt.Errorf("cannot clear pullup: %w", err)
	}
	if err := c.SetVidPid("0x0000", "0x0000"); err != nil {
		return err
	}
	return c.UnlinkFunctions()
}
