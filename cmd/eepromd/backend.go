package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/moffa90/go-eeprom/bus"
	"github.com/moffa90/go-eeprom/config"
	"github.com/moffa90/go-eeprom/image"
	"github.com/moffa90/go-eeprom/sim"
	"github.com/retroenv/retrogolib/log"
	"periph.io/x/host/v3"
)

// openBus builds the configured backend. The returned function releases it;
// for a simulation with save enabled it writes the memory back to the image.
func openBus(logger *log.Logger, cfg *config.Config) (bus.Bus, func(), error) {
	switch cfg.Bus.Backend {
	case config.BackendGPIO:
		if _, err := host.Init(); err != nil {
			return nil, nil, fmt.Errorf("initialize host drivers: %w", err)
		}
		b, err := bus.OpenGPIOBus(cfg.PinNames(), cfg.WritePulse())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("GPIO bus ready", log.Stringer("write_pulse", cfg.WritePulse()))
		return b, func() {}, nil

	case config.BackendSim:
		chip := sim.New(cfg.SimOptions()...)
		if err := loadImage(logger, chip, cfg.Sim); err != nil {
			return nil, nil, err
		}
		return chip, func() { saveImage(logger, chip, cfg.Sim) }, nil
	}

	return nil, nil, fmt.Errorf("unknown bus backend %q", cfg.Bus.Backend)
}

func loadImage(logger *log.Logger, chip *sim.Chip, cfg config.SimConfig) error {
	if cfg.Image == "" {
		logger.Info("Simulated memory is erased")
		return nil
	}

	img, err := image.Parse(cfg.Image)
	if err != nil {
		// A missing image is created on exit when saving.
		if cfg.Save && errors.Is(err, os.ErrNotExist) {
			logger.Info("Image not found, starting erased", log.String("image", cfg.Image))
			return nil
		}
		return fmt.Errorf("load image: %w", err)
	}

	if err := chip.Load(img.Data); err != nil {
		return err
	}
	logger.Info("Simulated memory loaded",
		log.String("image", cfg.Image),
		log.Int("used", img.Used))
	return nil
}

func saveImage(logger *log.Logger, chip *sim.Chip, cfg config.SimConfig) {
	if !cfg.Save {
		return
	}

	if err := image.Save(cfg.Image, chip.Bytes()); err != nil {
		logger.Error("Saving image failed", log.Err(err))
		return
	}

	st := chip.Stats()
	logger.Info("Image saved",
		log.String("image", cfg.Image),
		log.Int("write_cycles", st.WriteCycles),
		log.Int("erases", st.Erases))
}
