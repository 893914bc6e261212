package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
)

// Notifier delivers booking notifications out of band.
type Notifier interface {
	SendBookingEmail(user *db.User, booking *db.Booking, slotNumber, status string)
	SendBookingSMS(user *db.User, booking *db.Booking, status string)
}

type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendBookingEmail(user *db.User, booking *db.Booking, slotNumber, status string) {
	emailData := entities.BookingEmailData{
		UserName:           user.Name,
		BookingCode:        booking.Code,
		SlotNumber:         slotNumber,
		VehiclePlate:       booking.VehiclePlate,
		StartTimeFormatted: booking.StartTime.Format("02 Jan 2006 15:04 MST"),
		EndTimeFormatted:   booking.EndTime.Format("02 Jan 2006 15:04 MST"),
		Amount:             booking.Amount,
		Currency:           booking.Currency,
		Status:             status,
		CurrentYear:        time.Now().Year(),
	}

	emailSubject := fmt.Sprintf("Your ParkHub booking is %s - Code: %s", status, emailData.BookingCode)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour parking booking at ParkHub is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Slot: %s\n"+
			"Vehicle Plate: %s\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n"+
			"Amount: %.2f %s\n\n"+
			"Thank you for choosing ParkHub.\n\n"+
			"ParkHub. All rights reserved.",
		emailData.UserName, status, emailData.BookingCode, emailData.SlotNumber, emailData.VehiclePlate,
		emailData.StartTimeFormatted, emailData.EndTimeFormatted, emailData.Amount, emailData.Currency,
	)

	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	htmlBody := ""
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: Could not parse HTML email template (%s): %v", tmplPath, err)
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			log.Printf("ALERT: Could not execute HTML email template for booking %s: %v", emailData.BookingCode, err)
		}
		htmlBody = htmlBodyBuffer.String()
	}

	go func(toEmail, userName, subject, plainBody, htmlBodyContent string) {
		if errEmail := SendEmailWithSendGrid(toEmail, userName, subject, plainBody, htmlBodyContent); errEmail != nil {
			log.Printf("ALERT (async): email delivery failed for booking %s: %v", emailData.BookingCode, errEmail)
		}
	}(user.Email, emailData.UserName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) SendBookingSMS(user *db.User, booking *db.Booking, status string) {
	smsMessage := fmt.Sprintf("ParkHub: booking %s has been %s!\nCheck-in: %s.\nMore details in your email.",
		booking.Code, status,
		booking.StartTime.Format("02/01 15:04"),
	)

	if errSMS := SendSMS(user.Phone, smsMessage); errSMS != nil {
		log.Printf("ALERT: booking %s notification SMS to %s failed: %v", booking.Code, user.Phone, errSMS)
	}
}
