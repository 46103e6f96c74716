package main

import (
	"context"
	"errors"
	"log/slog"

	"teachtimer/internal/audio"
	"teachtimer/internal/config"
	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"
	"teachtimer/internal/platform"
	"teachtimer/internal/ui/overlay"
	"teachtimer/internal/ui/preferences"
	apptheme "teachtimer/internal/ui/theme"
	"teachtimer/internal/ui/tray"
	"teachtimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appID = "io.teachtimer.app"

func runDesktop(ctx context.Context) error {
	guard, err := platform.AcquireSingleInstance(config.AppName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			slog.Info("already running, activating the open window")
			return platform.ActivateRunning(config.AppName)
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sess := session.New(store, audio.NewSpeakerPlayer(), nil)
	defer sess.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.AppIcon))
	fyneApp.Settings().SetTheme(apptheme.New(sess.Settings()))

	timerWindow := overlay.New(fyneApp, sess, overlay.Config{AdjustStep: cfg.AdjustStep})
	prefsWindow := preferences.New(fyneApp, sess)
	timerWindow.SetOnPreferences(prefsWindow.Show)

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, sess, cfg.AdjustStep, tray.Icons{
			Running:  resources.MustLogo(resources.RunningIcon),
			Paused:   resources.MustLogo(resources.PausedIcon),
			Complete: resources.MustLogo(resources.CompleteIcon),
		}, tray.Callbacks{
			OnShow:        timerWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		timerWindow.Window().SetCloseIntercept(timerWindow.Window().Hide)
	} else {
		slog.Debug("system tray unsupported on this platform")
		timerWindow.Window().SetMaster()
	}

	renderers := []session.Renderer{timerWindow}
	if trayManager != nil {
		renderers = append(renderers, trayManager)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := timekeeper.NewRunner(sess, nil, timekeeper.Config{TickInterval: cfg.TickInterval})
	go func() {
		_ = runner.Run(runCtx)
	}()
	fyneApp.Lifecycle().SetOnEnteredForeground(runner.Wake)
	fyneApp.Lifecycle().SetOnStopped(timerWindow.StopEffects)

	go guard.Serve(func() {
		fyne.Do(timerWindow.Show)
	})

	events := sess.Subscribe(32)
	go func() {
		for event := range events {
			fyne.Do(func() {
				dispatch(event, sess, fyneApp, timerWindow, trayManager, prefsWindow, renderers)
			})
		}
	}()

	go func() {
		<-runCtx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	timerWindow.Show()
	fyneApp.Run()
	return nil
}

func dispatch(event session.Event, sess *session.Session, fyneApp fyne.App, timerWindow *overlay.Window, trayManager *tray.Manager, prefsWindow *preferences.Window, renderers []session.Renderer) {
	switch event.Type {
	case session.EventSettings:
		fyneApp.Settings().SetTheme(apptheme.New(event.View.Settings))
	case session.EventPresets:
		presets := sess.Presets()
		timerWindow.SetPresets(presets)
		if trayManager != nil {
			trayManager.SetPresets(presets)
		}
		prefsWindow.RefreshPresets()
	case session.EventCompleted:
		timerWindow.Show()
	}
	for _, renderer := range renderers {
		renderer.Render(event.View)
	}
}
